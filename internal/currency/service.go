package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/i474232898/api-showcase/internal/common"
	"github.com/i474232898/api-showcase/internal/logger"
	"github.com/i474232898/api-showcase/internal/upstream"
)

// RatesTTL is how stale a rates response the transport may serve.
const RatesTTL = time.Hour

const (
	msgBaseRequired  = "base currency required"
	msgBaseInvalid   = "base currency must be a currency code"
	msgAmountInvalid = "valid amount required"
	msgFetchFailed   = "failed to fetch exchange rates, retry later"
	msgUnknownBase   = "failed to fetch exchange rates; check the currency code"
	msgNoRates       = "no exchange rates found for the requested currencies"
)

var validate = validator.New()

type conversionInput struct {
	From   string  `validate:"required,alpha"`
	Amount float64 `validate:"gt=0"`
}

// Service converts an amount into other currencies using the latest rates
// from ExchangeRate-API (no key required).
type Service struct {
	client  *upstream.Client
	baseURL string
	log     zerolog.Logger
}

func NewService(client *upstream.Client, baseURL string) *Service {
	return &Service{
		client:  client,
		baseURL: baseURL,
		log:     logger.Component("currency"),
	}
}

// Convert validates req, fetches rates for req.From and converts req.Amount
// into every requested currency the upstream knows.
func (s *Service) Convert(ctx context.Context, req Request) Result {
	in, msg := parseRequest(req)
	if msg != "" {
		return failed(http.StatusBadRequest, msg)
	}

	payload, err := s.fetchLatest(ctx, in.From)
	if err != nil {
		s.log.Error().Err(err).Str("base", in.From).Msg("exchange rate request failed")
		return failed(http.StatusInternalServerError, msgFetchFailed)
	}
	if payload.Result == "error" {
		return failed(http.StatusOK, msgUnknownBase)
	}

	targets := common.SplitUpper(req.To)
	if len(targets) == 0 {
		targets = defaultTargets(in.From)
	}

	conversions := make([]Conversion, 0, len(targets))
	for _, code := range targets {
		rate, ok := payload.Rates[code]
		if !ok {
			continue
		}
		info := Info(code)
		conversions = append(conversions, Conversion{
			Currency: code,
			Rate:     rate,
			Amount:   in.Amount * rate,
			Symbol:   info.Symbol,
			Name:     info.Name,
		})
	}
	if len(conversions) == 0 {
		return failed(http.StatusOK, msgNoRates)
	}

	return Result{
		Success: true,
		Status:  http.StatusOK,
		Data: &ConversionSet{
			BaseCurrency: in.From,
			BaseAmount:   in.Amount,
			Conversions:  conversions,
			LastUpdated:  payload.TimeLastUpdateUTC,
		},
	}
}

func parseRequest(req Request) (conversionInput, string) {
	in := conversionInput{From: strings.ToUpper(strings.TrimSpace(req.From))}
	if in.From == "" {
		return in, msgBaseRequired
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(req.Amount), 64)
	if err != nil || math.IsInf(amount, 0) {
		return in, msgAmountInvalid
	}
	in.Amount = amount

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "From" {
			return in, msgBaseInvalid
		}
		return in, msgAmountInvalid
	}
	return in, ""
}

func (s *Service) fetchLatest(ctx context.Context, base string) (*latestRatesPayload, error) {
	u := fmt.Sprintf("%s/v6/latest/%s", s.baseURL, url.PathEscape(base))
	resp, err := s.client.Get(ctx, u, upstream.Options{Cache: upstream.MaxAge(RatesTTL)})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("exchange rate api returned %d", resp.StatusCode)
	}

	var payload latestRatesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode exchange rates: %w", err)
	}
	return &payload, nil
}

func defaultTargets(base string) []string {
	codes := make([]string, 0, len(MajorCurrencies))
	for _, c := range MajorCurrencies {
		if c.Code != base {
			codes = append(codes, c.Code)
		}
	}
	return codes
}

func failed(status int, msg string) Result {
	return Result{Success: false, Error: msg, Status: status}
}
