package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	orderdomain "github.com/Apurer/petcare-booking/internal/domains/orders/domain"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	petdomain "github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	petports "github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	staffdomain "github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	staffports "github.com/Apurer/petcare-booking/internal/domains/staff/ports"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
	"github.com/Apurer/petcare-booking/internal/shared/validation"
)

// SupersededNote is written on a pending order replaced by a resubmission.
const SupersededNote = "canceled, replaced by a new booking submission"

// Orchestrator turns a staged selection into a scheduled, paid booking.
type Orchestrator struct {
	staging  *Staging
	slots    *SlotAllocator
	payments *Payments
	pets     petports.Service
	staff    staffports.Service
	orders   orderports.Lifecycle
	validate *validatorv10.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// Dependencies groups the collaborators of the booking flow.
type Dependencies struct {
	Staging  *Staging
	Slots    *SlotAllocator
	Payments *Payments
	Pets     petports.Service
	Staff    staffports.Service
	Orders   orderports.Lifecycle
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used to check pending orders.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func NewOrchestrator(deps Dependencies, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		staging:  deps.Staging,
		slots:    deps.Slots,
		payments: deps.Payments,
		pets:     deps.Pets,
		staff:    deps.Staff,
		orders:   deps.Orders,
		validate: validation.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *Orchestrator) Begin(ctx context.Context, input ports.BeginInput) (*domain.Staging, error) {
	if err := validation.Check(o.validate, input); err != nil {
		return nil, err
	}
	return o.staging.Begin(ctx, input.AccountID, input.PreviousSessionID)
}

func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*domain.Staging, error) {
	return o.staging.Get(ctx, sessionID)
}

func (o *Orchestrator) PutSelection(ctx context.Context, sessionID string, input ports.SelectionInput) (*domain.Staging, error) {
	if err := validation.Check(o.validate, input); err != nil {
		return nil, err
	}
	return o.staging.Put(ctx, sessionID, toLineItem(input))
}

func (o *Orchestrator) AddCartItem(ctx context.Context, sessionID string, input ports.SelectionInput) (*domain.Staging, error) {
	if err := validation.Check(o.validate, input); err != nil {
		return nil, err
	}
	return o.staging.AddCartItem(ctx, sessionID, toLineItem(input))
}

func (o *Orchestrator) RemoveCartItem(ctx context.Context, sessionID, productID string) (*domain.Staging, error) {
	return o.staging.RemoveCartItem(ctx, sessionID, productID)
}

func (o *Orchestrator) Abandon(ctx context.Context, sessionID string) error {
	return o.staging.Abandon(ctx, sessionID)
}

// ResolvePet finds or creates the customer's pet and remembers it for submission.
func (o *Orchestrator) ResolvePet(ctx context.Context, sessionID string, input ports.PetInput) (*petports.Resolution, error) {
	staging, err := o.staging.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resolution, err := o.pets.Resolve(ctx, petports.ResolveInput{
		OwnerID: staging.AccountID,
		Name:    input.Name,
		Weight:  input.Weight,
		Age:     input.Age,
		TypeID:  input.TypeID,
	})
	if err != nil {
		return nil, err
	}
	staging.PendingPetID = resolution.Pet.ID
	if err := o.staging.Save(ctx, staging); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return resolution, nil
}

// Submit creates the order for the staged selection and starts the deposit
// payment. Failures leave the staging untouched; a payment failure also keeps
// the unpaid order so the next attempt pays for it instead of creating another.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, input ports.SubmitInput) (*ports.SubmitResult, error) {
	staging, err := o.staging.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	input.StaffID = strings.TrimSpace(input.StaffID)
	if err := o.checkSubmission(staging, input); err != nil {
		return nil, err
	}
	execution, err := o.slots.Execution(input.Date, input.Time)
	if err != nil {
		return nil, err
	}
	if input.StaffMode == domain.StaffModeManual {
		if err := o.staff.EnsureActive(ctx, input.StaffID); err != nil {
			return nil, err
		}
	}

	pendingID := ""
	if staging.BookingDraft != nil {
		pendingID = staging.BookingDraft.PendingOrderID
	}
	staging.BookingDraft = &domain.Draft{
		Date:           input.Date,
		Time:           input.Time,
		StaffMode:      input.StaffMode,
		StaffID:        input.StaffID,
		Note:           input.Note,
		Description:    input.Description,
		PendingOrderID: pendingID,
	}

	wanted := buildOrder(staging, execution, input)
	order, reused, err := o.pendingOrder(ctx, staging, wanted)
	if err != nil {
		return nil, err
	}
	if order == nil {
		order, err = o.orders.CreateOrder(ctx, wanted)
		if err != nil {
			return nil, err
		}
		staging.BookingDraft.PendingOrderID = order.ID
	}
	if err := o.staging.Save(ctx, staging); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	handle, err := o.payments.Initiate(ctx, staging.SessionID, order)
	if err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "payment initiation failed, order stays unpaid",
			slog.String("session.id", sessionID), slog.String("order.id", order.ID), slog.String("error", err.Error()))
		return nil, err
	}
	return &ports.SubmitResult{Order: order, Payment: handle, Reused: reused}, nil
}

func (o *Orchestrator) ConfirmPayment(ctx context.Context, callback ports.PaymentCallback) (*orderports.TransitionResult, error) {
	return o.payments.Confirm(ctx, callback)
}

func (o *Orchestrator) Slots(_ context.Context, date string) ([]domain.Slot, error) {
	return o.slots.Slots(date)
}

func (o *Orchestrator) PetTypes(ctx context.Context) ([]petdomain.PetType, error) {
	return o.pets.PetTypes(ctx)
}

func (o *Orchestrator) ActiveStaff(ctx context.Context) ([]staffdomain.Member, error) {
	return o.staff.ListActive(ctx)
}

func (o *Orchestrator) checkSubmission(staging *domain.Staging, input ports.SubmitInput) error {
	fields := apperr.FieldErrors{}
	if staging.CurrentSelection.Empty() {
		fields.Add("selection", domain.ErrEmptySelection.Error())
	}
	if strings.TrimSpace(staging.PendingPetID) == "" {
		fields.Add("petId", "is required")
	}
	if err := validation.Check(o.validate, input); err != nil {
		if inputFields, ok := apperr.Fields(err); ok {
			for field, msg := range inputFields {
				fields.Add(field, msg)
			}
		} else {
			return err
		}
	}
	return fields.Err()
}

// pendingOrder returns the unpaid order a failed payment left behind when it
// can still be paid and still matches the revalidated request. A pending order
// for another slot, staff choice or cart is canceled and forgotten.
func (o *Orchestrator) pendingOrder(ctx context.Context, staging *domain.Staging, wanted *orderdomain.Order) (*orderdomain.Order, bool, error) {
	pendingID := staging.BookingDraft.PendingOrderID
	if pendingID == "" {
		return nil, false, nil
	}
	order, err := o.orders.GetOrder(ctx, pendingID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		staging.BookingDraft.PendingOrderID = ""
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	now := o.now()
	if order.Status == orderdomain.StatusPaid {
		return nil, false, fmt.Errorf("%w: order %s is already paid", apperr.ErrStateConflict, order.ID)
	}
	staging.BookingDraft.PendingOrderID = ""
	if order.Status != orderdomain.StatusUnpaid || order.Expired(now) {
		return nil, false, nil
	}
	if sameBooking(order, wanted) && order.ExecutionDate.After(now) {
		staging.BookingDraft.PendingOrderID = order.ID
		return order, true, nil
	}
	_, err = o.orders.Cancel(ctx, orderports.CancelCommand{
		OrderID:     order.ID,
		Note:        SupersededNote,
		Description: "booking resubmitted with different details",
	})
	if err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to cancel superseded pending order",
			slog.String("order.id", order.ID), slog.String("error", err.Error()))
	}
	return nil, false, nil
}

// sameBooking reports whether a pending order books what the request asks for.
func sameBooking(pending, wanted *orderdomain.Order) bool {
	return pending.ExecutionDate.Equal(wanted.ExecutionDate) &&
		pending.Type == wanted.Type &&
		pending.StaffID == wanted.StaffID &&
		pending.PetID == wanted.PetID &&
		pending.FinalAmount.Equal(wanted.FinalAmount)
}

func buildOrder(staging *domain.Staging, execution time.Time, input ports.SubmitInput) *orderdomain.Order {
	lines := staging.CurrentSelection.OrderLines()
	products := make([]orderdomain.ProductLine, 0, len(lines))
	for _, line := range lines {
		products = append(products, orderdomain.ProductLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.SellingPrice,
		})
	}
	order := &orderdomain.Order{
		PetID:         staging.PendingPetID,
		AccountID:     staging.AccountID,
		Products:      products,
		ExecutionDate: execution,
		Type:          orderdomain.TypeManagerRequest,
		Note:          strings.TrimSpace(input.Note),
		Description:   strings.TrimSpace(input.Description),
		FinalAmount:   staging.CurrentSelection.FinalAmount,
	}
	if input.StaffMode == domain.StaffModeManual {
		order.Type = orderdomain.TypeCustomerRequest
		order.StaffID = input.StaffID
	}
	return order
}

func toLineItem(input ports.SelectionInput) domain.LineItem {
	return domain.LineItem{
		ProductID:    strings.TrimSpace(input.ProductID),
		Name:         input.Name,
		SellingPrice: input.SellingPrice,
		Quantity:     input.Quantity,
	}
}

var _ ports.Service = (*Orchestrator)(nil)
