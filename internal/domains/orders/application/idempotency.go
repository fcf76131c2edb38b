package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	ordertypes "github.com/Apurer/go-gin-booking-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

type normalizedCustomer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type normalizedExcursionInput struct {
	Kind        domain.Kind        `json:"kind"`
	Customer    normalizedCustomer `json:"customer"`
	ExcursionID string             `json:"excursionId"`
	HotelName   string             `json:"hotelName"`
	HotelNumber string             `json:"hotelNumber"`
	Adults      int                `json:"adults"`
	Children    int                `json:"children"`
	TravelDate  string             `json:"travelDate"`
}

type normalizedYachtInput struct {
	Kind        domain.Kind        `json:"kind"`
	Customer    normalizedCustomer `json:"customer"`
	YachtID     string             `json:"yachtId"`
	Destination string             `json:"destination"`
	Duration    string             `json:"duration"`
	TravelDate  string             `json:"travelDate"`
}

type normalizedTransferInput struct {
	Kind           domain.Kind        `json:"kind"`
	Customer       normalizedCustomer `json:"customer"`
	TransferType   string             `json:"transferType"`
	PickUpLocation string             `json:"pickUpLocation"`
	Destination    string             `json:"destination"`
	NumPassengers  int                `json:"numPassengers"`
	FlightNumber   string             `json:"flightNumber"`
	ArrivalTime    string             `json:"arrivalTime"`
	PickUpDate     string             `json:"pickUpDate"`
}

// FingerprintExcursion builds a deterministic hash of an excursion request (excluding the idempotency key).
func FingerprintExcursion(input ordertypes.CreateExcursionOrderInput) (string, error) {
	return fingerprint(normalizedExcursionInput{
		Kind:        domain.KindExcursion,
		Customer:    normalizeCustomer(input.Customer),
		ExcursionID: strings.TrimSpace(input.ExcursionID),
		HotelName:   strings.TrimSpace(input.HotelName),
		HotelNumber: strings.TrimSpace(input.HotelNumber),
		Adults:      input.Adults,
		Children:    input.Children,
		TravelDate:  normalizeDate(input.TravelDate),
	})
}

// FingerprintYacht builds a deterministic hash of a yacht request.
func FingerprintYacht(input ordertypes.CreateYachtOrderInput) (string, error) {
	return fingerprint(normalizedYachtInput{
		Kind:        domain.KindYacht,
		Customer:    normalizeCustomer(input.Customer),
		YachtID:     strings.TrimSpace(input.YachtID),
		Destination: input.Destination,
		Duration:    input.Duration,
		TravelDate:  normalizeDate(input.TravelDate),
	})
}

// FingerprintTransfer builds a deterministic hash of a transfer request.
func FingerprintTransfer(input ordertypes.CreateTransferOrderInput) (string, error) {
	return fingerprint(normalizedTransferInput{
		Kind:           domain.KindTransfer,
		Customer:       normalizeCustomer(input.Customer),
		TransferType:   strings.ToLower(strings.TrimSpace(input.TransferType)),
		PickUpLocation: strings.TrimSpace(input.PickUpLocation),
		Destination:    strings.TrimSpace(input.Destination),
		NumPassengers:  input.NumPassengers,
		FlightNumber:   strings.ToUpper(strings.TrimSpace(input.FlightNumber)),
		ArrivalTime:    strings.TrimSpace(input.ArrivalTime),
		PickUpDate:     normalizeDate(input.PickUpDate),
	})
}

func fingerprint(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeCustomer(c ordertypes.CustomerInput) normalizedCustomer {
	return normalizedCustomer{
		FullName: strings.TrimSpace(c.FullName),
		Email:    strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:    strings.TrimSpace(c.Phone),
	}
}

func normalizeDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// replay returns the order previously created under the key. The request hash is returned for remember.
func (s *Service) replay(ctx context.Context, kind domain.Kind, key string, hashFn func() (string, error)) (string, *ordertypes.OrderProjection, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return "", nil, nil
	}
	hash, err := hashFn()
	if err != nil {
		return "", nil, err
	}
	record, err := s.idempotency.Get(ctx, kind, key)
	if err != nil {
		return "", nil, err
	}
	if record == nil {
		return hash, nil, nil
	}
	if record.RequestHash != hash {
		return "", nil, ports.ErrIdempotencyConflict
	}
	existing, err := s.repo.GetByID(ctx, kind, record.OrderID)
	if err != nil {
		return "", nil, err
	}
	return hash, existing, nil
}

// remember binds the key to saved. When a concurrent request with the same key and body
// won the race, its order is returned instead and replayed is true. Other failures are
// logged; the order exists, so the caller still gets it.
func (s *Service) remember(ctx context.Context, kind domain.Kind, key, hash string, saved *ordertypes.OrderProjection) (result *ordertypes.OrderProjection, replayed bool) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil || saved == nil {
		return saved, false
	}
	stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Kind:        kind,
		Key:         key,
		RequestHash: hash,
		OrderID:     saved.Entity.ID,
	})
	if err == nil {
		return saved, false
	}
	attrs := []slog.Attr{
		slog.String("kind", string(kind)),
		slog.String("idempotency_key", key),
		slog.String("order_id", saved.Entity.ID),
	}
	if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil && stored.RequestHash == hash {
		winner, getErr := s.repo.GetByID(ctx, kind, stored.OrderID)
		if getErr == nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "concurrent idempotent create, replaying first order",
				append(attrs, slog.String("replayed_order_id", stored.OrderID))...)
			return winner, true
		}
		err = getErr
	}
	s.logger.LogAttrs(ctx, slog.LevelError, "idempotency key not recorded",
		append(attrs, slog.String("error", err.Error()))...)
	return saved, false
}
