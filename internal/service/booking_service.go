package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/availability"
	"github.com/Mwvndva/bybloshq-orders/internal/broker"
	"github.com/Mwvndva/bybloshq-orders/internal/models"
	"github.com/Mwvndva/bybloshq-orders/internal/redisclient"
	"github.com/Mwvndva/bybloshq-orders/internal/store"
	"github.com/Mwvndva/bybloshq-orders/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const bookingDateLayout = "2006-01-02"

// BookingService creates service-booking orders
type BookingService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	currency       string
	idempotencyTTL time.Duration
}

// NewBookingService creates a new booking service
func NewBookingService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	currency string,
	idempotencyTTL time.Duration,
) *BookingService {
	return &BookingService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		currency:       currency,
		idempotencyTTL: idempotencyTTL,
	}
}

// BookingRequest is a booker's request for a service slot
type BookingRequest struct {
	ServiceID      int64                        `json:"service_id" binding:"required"`
	BookingDate    string                       `json:"booking_date"`
	TimeSlot       string                       `json:"time_slot"`
	Location       availability.LocationRequest `json:"location"`
	Requirements   string                       `json:"requirements,omitempty"`
	IdempotencyKey string                       `json:"idempotency_key,omitempty"`
}

// DayAvailability is the slot listing for one calendar day
type DayAvailability struct {
	Date      string              `json:"date"`
	Available bool                `json:"available"`
	Slots     []availability.Slot `json:"slots"`
}

// Slots returns the availability and slot list for a service on a day.
// Slots are recomputed on every call, never cached.
func (s *BookingService) Slots(ctx context.Context, serviceID int64, date string) (*DayAvailability, error) {
	svc, err := s.store.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(bookingDateLayout, date, time.Local)
	if err != nil {
		return nil, &availability.ValidationError{Field: "date", Msg: "date must be YYYY-MM-DD"}
	}

	out := &DayAvailability{Date: date}
	if !availability.IsDateAvailable(day, svc.AvailableDays) {
		return out, nil
	}

	out.Available = true
	out.Slots = availability.GenerateSlots(svc.StartTime, svc.EndTime)
	return out, nil
}

// CreateBooking validates a booking request and creates the backing order.
// Invalid date, slot or location surface as ValidationError so the form
// can be corrected and resubmitted. An Idempotency-Key makes retries
// return the order created the first time.
func (s *BookingService) CreateBooking(ctx context.Context, req *BookingRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	if req.IdempotencyKey != "" {
		existingID, err := s.redis.LookupIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existingID != 0 {
			s.logger.Info("Duplicate booking request",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("order_id", existingID))
			return s.store.GetOrderWithItems(ctx, existingID)
		}
	}

	svc, err := s.store.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	branches, err := s.store.GetServiceAddresses(ctx, svc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service addresses: %w", err)
	}

	slot, location, err := s.validate(svc, branches, req)
	if err != nil {
		var verr *availability.ValidationError
		if errors.As(err, &verr) {
			util.BookingValidationFailures.WithLabelValues(verr.Field).Inc()
		}
		return nil, err
	}

	order := &models.Order{
		SellerID:      svc.SellerID,
		OrderNumber:   newOrderNumber(),
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		TotalAmount:   svc.Price,
		Currency:      s.currency,
		Metadata: &models.BookingMetadata{
			BookingDate:  req.BookingDate,
			TimeSlot:     slot.Label,
			LocationMode: string(location.Mode),
			Address:      location.Address,
			Requirements: req.Requirements,
		},
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create booking order: %w", err)
	}

	item := &models.OrderItem{
		OrderID:     order.ID,
		Name:        svc.Name,
		ProductType: models.ProductTypeService,
		Quantity:    1,
		UnitPrice:   svc.Price,
	}
	if err := s.store.CreateOrderItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create booking item: %w", err)
	}
	order.Items = []models.OrderItem{*item}

	if req.IdempotencyKey != "" {
		if _, err := s.redis.ClaimIdempotencyKey(ctx, req.IdempotencyKey, order.ID, s.idempotencyTTL); err != nil {
			s.logger.Warn("Failed to claim idempotency key", zap.Error(err))
		}
	}

	util.BookingsCreatedTotal.Inc()
	s.logger.Info("Booking created",
		zap.Int64("order_id", order.ID),
		zap.Int64("service_id", svc.ID),
		zap.String("date", req.BookingDate),
		zap.String("slot", slot.Label))

	event := &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		ServiceID:   svc.ID,
		BookingDate: req.BookingDate,
		TimeSlot:    slot.Label,
		Location:    location.Address,
	}
	if err := s.eventPublisher.PublishBookingCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish BookingCreated event", zap.Error(err))
	}

	return order, nil
}

func (s *BookingService) validate(svc *models.Service, branches []models.ServiceAddress, req *BookingRequest) (availability.Slot, availability.Location, error) {
	var none availability.Slot

	if req.BookingDate == "" {
		return none, availability.Location{}, &availability.ValidationError{Field: "booking_date", Msg: "a booking date is required"}
	}
	day, err := time.ParseInLocation(bookingDateLayout, req.BookingDate, time.Local)
	if err != nil {
		return none, availability.Location{}, &availability.ValidationError{Field: "booking_date", Msg: "date must be YYYY-MM-DD"}
	}
	if !availability.IsDateAvailable(day, svc.AvailableDays) {
		return none, availability.Location{}, &availability.ValidationError{Field: "booking_date", Msg: "the service is not available on this date"}
	}

	if strings.TrimSpace(req.TimeSlot) == "" {
		return none, availability.Location{}, &availability.ValidationError{Field: "time_slot", Msg: "a time slot is required"}
	}
	var slot *availability.Slot
	for _, candidate := range availability.GenerateSlots(svc.StartTime, svc.EndTime) {
		if candidate.Label == req.TimeSlot {
			match := candidate
			slot = &match
			break
		}
	}
	if slot == nil {
		return none, availability.Location{}, &availability.ValidationError{Field: "time_slot", Msg: "the chosen slot is not offered on this service"}
	}

	location, err := availability.ResolveLocation(*svc, branches, req.Location)
	if err != nil {
		return none, availability.Location{}, err
	}

	return *slot, location, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
