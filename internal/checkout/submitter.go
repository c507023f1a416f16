package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/pkg/config"
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
)

// OrderSubmission is the payload handed to the order backend once a
// checkout is authorized and priced.
type OrderSubmission struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	Items       []cart.LineItem `json:"items"`
	Subtotal    currency.Money  `json:"subtotal"`
	Commission  currency.Money  `json:"commission"`
	Total       currency.Money  `json:"total"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// Submitter hands a priced order to the order backend.
type Submitter interface {
	Submit(ctx context.Context, submission OrderSubmission) error
}

// HTTPSubmitter posts order submissions to the configured order endpoint.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter builds the order backend client from checkout config.
func NewHTTPSubmitter(cfg config.CheckoutConfig) (*HTTPSubmitter, error) {
	if cfg.OrderEndpoint == "" {
		return nil, fmt.Errorf("order endpoint required")
	}
	return &HTTPSubmitter{
		endpoint: cfg.OrderEndpoint,
		client:   &http.Client{Timeout: cfg.SubmitTimeout},
	}, nil
}

func (s *HTTPSubmitter) Submit(ctx context.Context, submission OrderSubmission) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("order backend rejected submission: status %d", resp.StatusCode))
	}
	return nil
}
