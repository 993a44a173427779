package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/repositories"
)

const importBatchSize = 500

type PincodeService interface {
	Lookup(ctx context.Context, code string) (*models.Pincode, error)
	Search(ctx context.Context, params models.PincodeSearchParams) ([]models.Pincode, error)
	Import(ctx context.Context, r io.Reader) (int, error)
}

type pincodeService struct {
	repo repositories.PincodeRepository
	log  logger.Logger
}

func NewPincodeService(repo repositories.PincodeRepository, log logger.Logger) PincodeService {
	return &pincodeService{repo: repo, log: log}
}

func (s *pincodeService) Lookup(ctx context.Context, code string) (*models.Pincode, error) {
	p, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Pincode not found"}
		}
		return nil, models.NewInternalError(err)
	}
	return p, nil
}

func (s *pincodeService) Search(ctx context.Context, params models.PincodeSearchParams) ([]models.Pincode, error) {
	q := strings.TrimSpace(params.Query)
	if len(q) < 2 {
		return nil, models.ErrorValidation{Message: "Search query must be at least 2 characters"}
	}
	limit := params.Limit
	if limit < 1 || limit > maxLimit {
		limit = 20
	}
	out, err := s.repo.Search(ctx, q, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

// Import reads rows of pincode,state,city,locations where locations is a
// "|"-separated list. A header row starting with "pincode" is skipped.
func (s *pincodeService) Import(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		batch []models.Pincode
		total int
		line  int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.repo.BulkCreate(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return total, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "pincode") {
			continue
		}
		p, err := parsePincodeRecord(record)
		if err != nil {
			return total, fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, p)
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	s.log.Info("pincodes imported", "count", total)
	return total, nil
}

func parsePincodeRecord(record []string) (models.Pincode, error) {
	if len(record) < 3 {
		return models.Pincode{}, fmt.Errorf("expected at least 3 fields, got %d", len(record))
	}
	code := strings.TrimSpace(record[0])
	if code == "" {
		return models.Pincode{}, errors.New("empty pincode")
	}

	locations := []string{}
	if len(record) > 3 {
		for _, loc := range strings.Split(record[3], "|") {
			if loc = strings.TrimSpace(loc); loc != "" {
				locations = append(locations, loc)
			}
		}
	}

	return models.Pincode{
		Pincode:   code,
		State:     strings.TrimSpace(record[1]),
		City:      strings.TrimSpace(record[2]),
		Locations: locations,
	}, nil
}
