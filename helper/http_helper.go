package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"blog-cms/logger"
	"blog-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// HTTPHelper writes every JSON response the API sends.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Log        logger.Logger
}

var (
	registerOnce sync.Once
	translator   ut.Translator
	registerErr  error
)

// NewHTTPHelper hooks English messages and JSON field names into gin's
// shared validator. gin keeps a single engine, so the registration runs once
// per process.
func NewHTTPHelper(log logger.Logger) (*HTTPHelper, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, errors.New("unexpected gin validator engine")
	}

	registerOnce.Do(func() {
		v.RegisterTagNameFunc(fieldName)
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		registerErr = en_translations.RegisterDefaultTranslations(v, translator)
	})
	if registerErr != nil {
		return nil, registerErr
	}

	return &HTTPHelper{Validate: v, Translator: translator, Log: log}, nil
}

// fieldName reports json or query names instead of Go field names.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// GetStatusCode maps service errors to HTTP statuses.
func (u *HTTPHelper) GetStatusCode(err error) int {
	var (
		validation   models.ErrorValidation
		conflict     models.ErrorConflict
		unauthorized models.ErrorUnauthorized
		forbidden    models.ErrorForbidden
		notFound     models.ErrorNotFound
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &conflict):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// SendSuccess writes data as the response body.
func (u *HTTPHelper) SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// SendError writes err with the status GetStatusCode picks for it. Details of
// internal errors are logged, never returned.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	status := u.GetStatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		var internal models.ErrorInternalServer
		message = "Server error"
		if errors.As(err, &internal) && internal.Message != "" {
			message = internal.Message
		}
		if u.Log != nil {
			u.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		}
	}
	u.abort(c, status, message)
}

// SendBindError reports a failed ShouldBind call.
func (u *HTTPHelper) SendBindError(c *gin.Context, err error) {
	var (
		verrs       validator.ValidationErrors
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		numErr      *strconv.NumError
		modelErrVal models.ErrorValidation
	)
	switch {
	case errors.As(err, &verrs):
		u.SendValidationError(c, verrs)
	case errors.Is(err, io.EOF):
		u.SendBadRequest(c, "Request body is empty")
	case errors.As(err, &syntaxErr):
		u.SendBadRequest(c, "Malformed JSON body")
	case errors.As(err, &typeErr):
		u.SendBadRequest(c, "Invalid type for field "+typeErr.Field)
	case errors.As(err, &numErr):
		u.SendBadRequest(c, "Invalid value "+strconv.Quote(numErr.Num))
	case errors.As(err, &modelErrVal):
		u.SendBadRequest(c, modelErrVal.Message)
	default:
		u.SendBadRequest(c, err.Error())
	}
}

// SendValidationError lists every failed rule per field.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	fields := map[string][]string{}
	for _, fe := range validationErrors {
		msg := fe.Error()
		if u.Translator != nil {
			msg = fe.Translate(u.Translator)
		}
		fields[fe.Field()] = append(fields[fe.Field()], msg)
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  fields,
	})
}

func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	u.abort(c, http.StatusBadRequest, message)
}

func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	u.abort(c, http.StatusUnauthorized, message)
}

func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string) {
	u.abort(c, http.StatusForbidden, message)
}

func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string) {
	u.abort(c, http.StatusNotFound, message)
}

func (u *HTTPHelper) abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// GetPagingUrl rebuilds the current URL with page and limit replaced,
// keeping any filters.
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	target := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return target.String()
}

// GeneratePaging returns first/previous/next/last links. Links that would
// point outside 1..totalPages are left out.
func (u *HTTPHelper) GeneratePaging(c *gin.Context, page, limit, totalPages int) map[string]string {
	links := map[string]string{}
	if totalPages < 1 || limit < 1 {
		return links
	}

	if page > 1 && page <= totalPages {
		links["first"] = u.GetPagingUrl(c, 1, limit)
		links["previous"] = u.GetPagingUrl(c, page-1, limit)
	}
	if page < totalPages {
		links["next"] = u.GetPagingUrl(c, page+1, limit)
		links["last"] = u.GetPagingUrl(c, totalPages, limit)
	}
	return links
}

func (u *HTTPHelper) SendTooManyRequests(c *gin.Context, message string) {
	u.abort(c, http.StatusTooManyRequests, message)
}
