package scan

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshcart/grocery-backend/internal/catalog"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/product"
)

// Searcher runs a catalog query.
type Searcher interface {
	Query(ctx context.Context, o catalog.Options) ([]product.Product, error)
}

type Result struct {
	ScanID   string            `json:"scan_id"`
	Keyword  string            `json:"keyword"`
	Products []product.Product `json:"products"`
}

type Service struct {
	recognizer Recognizer
	catalog    Searcher
	logger     logging.Logger
}

func NewService(r Recognizer, s Searcher, logger logging.Logger) *Service {
	return &Service{recognizer: r, catalog: s, logger: logging.OrNoOp(logger)}
}

// Search recognizes the item in c and lists matching products. c is released
// before Search returns, whatever the outcome.
func (s *Service) Search(ctx context.Context, c *Capture) (Result, error) {
	defer func() {
		if err := c.Release(); err != nil {
			s.logger.Warn("scan capture release failed", map[string]interface{}{"error": err})
		}
	}()

	res := Result{ScanID: uuid.NewString(), Products: []product.Product{}}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	keyword, err := s.recognizer.Recognize(ctx, c)
	if err != nil {
		s.logger.Debug("scan not recognized", map[string]interface{}{"scan_id": res.ScanID, "error": err})
		return Result{}, err
	}

	res.Keyword = keyword
	if keyword == "" || keyword == Unknown {
		res.Keyword = Unknown
		return res, nil
	}
	ps, err := s.catalog.Query(ctx, catalog.Options{SearchText: keyword})
	if err != nil {
		return Result{}, err
	}
	res.Products = ps
	s.logger.Info("scan search", map[string]interface{}{"scan_id": res.ScanID, "keyword": keyword, "results": len(ps)})
	return res, nil
}
