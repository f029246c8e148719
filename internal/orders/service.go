package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kinawahq/foodorder-backend/pkg/db/models"
	"github.com/kinawahq/foodorder-backend/pkg/db/types"
	"github.com/kinawahq/foodorder-backend/pkg/enums"
	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
	"github.com/kinawahq/foodorder-backend/pkg/logger"
)

// CreateOrderInput holds the validated payload to open a draft order.
type CreateOrderInput struct {
	Name         string
	DeliveryDate *time.Time
	Notes        string
	CreatedBy    string
}

// LineInput holds the validated payload for one order line.
type LineInput struct {
	ItemCode string
	Quantity int
	Programs []string
	Notes    string
}

// UpdateLineInput holds optional mutation values for one order line.
type UpdateLineInput struct {
	Quantity *int
	Programs *[]string
	Notes    *string
}

// TransitionInput carries the payload for a status change.
type TransitionInput struct {
	Status             string
	ConfirmationNumber string
	ActualTotal        *decimal.Decimal
}

// Service exposes order allocation management operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, status string, limit int) ([]OrderDTO, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	AddLine(ctx context.Context, orderID uuid.UUID, input LineInput) (*OrderDTO, error)
	UpdateLine(ctx context.Context, orderID, itemID uuid.UUID, input UpdateLineInput) (*OrderDTO, error)
	RemoveLine(ctx context.Context, orderID, itemID uuid.UUID) (*OrderDTO, error)
	RecomputeEstimate(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	Transition(ctx context.Context, orderID uuid.UUID, input TransitionInput) (*OrderDTO, error)
	AllocationBreakdown(ctx context.Context, orderID uuid.UUID) (*AllocationDTO, error)
	DuplicateOrder(ctx context.Context, orderID uuid.UUID, newName string) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productResolver interface {
	FindByItemCode(ctx context.Context, itemCode string) (*models.Product, error)
}

type programResolver interface {
	FindByShortCode(ctx context.Context, shortCode string) (*models.Program, error)
}

type service struct {
	repo     *Repository
	runner   txRunner
	products productResolver
	programs programResolver
	logg     *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, runner txRunner, products productResolver, programs programResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if programs == nil {
		return nil, fmt.Errorf("program resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, runner: runner, products: products, programs: programs, logg: logg}, nil
}

// CreateOrder opens a new draft order.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order name is required")
	}
	order := &models.Order{
		ID:            uuid.New(),
		Name:          name,
		CreatedDate:   time.Now().UTC(),
		DeliveryDate:  input.DeliveryDate,
		Status:        enums.OrderStatusDraft,
		TotalEstimate: decimal.Zero,
		Notes:         strings.TrimSpace(input.Notes),
		CreatedBy:     strings.TrimSpace(input.CreatedBy),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return toOrderDTO(order), nil
}

// GetOrder returns the order with lines and their catalog snapshots.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// ListOrders returns order headers newest-first, optionally by status.
func (s *service) ListOrders(ctx context.Context, status string, limit int) ([]OrderDTO, error) {
	var filter enums.OrderStatus
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		parsed, err := enums.ParseOrderStatus(trimmed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = parsed
	}
	orders, err := s.repo.List(ctx, filter, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toOrderDTOs(orders), nil
}

// DeleteOrder removes the order and all of its lines. Both deletes
// commit together so a failed header delete leaves the lines intact.
func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.loadHeader(ctx, s.repo, orderID); err != nil {
		return err
	}
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, orderID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

// AddLine appends a validated line and refreshes the stored estimate.
// Adding to a ready order reverts it to draft.
func (s *service) AddLine(ctx context.Context, orderID uuid.UUID, input LineInput) (*OrderDTO, error) {
	return s.mutateLines(ctx, orderID, func(repo *Repository, order *models.Order) error {
		product, err := s.resolveActiveProduct(ctx, input.ItemCode)
		if err != nil {
			return err
		}
		programs, err := s.validateLine(ctx, input.Quantity, input.Programs)
		if err != nil {
			return err
		}
		item := &models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
			Programs:  programs,
			Notes:     strings.TrimSpace(input.Notes),
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store order line")
		}
		return nil
	})
}

// UpdateLine applies partial changes to one line and refreshes the
// stored estimate. Updating a ready order reverts it to draft.
func (s *service) UpdateLine(ctx context.Context, orderID, itemID uuid.UUID, input UpdateLineInput) (*OrderDTO, error) {
	return s.mutateLines(ctx, orderID, func(repo *Repository, order *models.Order) error {
		item, err := s.loadItem(ctx, repo, orderID, itemID)
		if err != nil {
			return err
		}
		quantity := item.Quantity
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		programCodes := []string(item.Programs)
		if input.Programs != nil {
			programCodes = *input.Programs
		}
		programs, err := s.validateLine(ctx, quantity, programCodes)
		if err != nil {
			return err
		}
		item.Quantity = quantity
		item.Programs = programs
		if input.Notes != nil {
			item.Notes = strings.TrimSpace(*input.Notes)
		}
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order line")
		}
		return nil
	})
}

// RemoveLine deletes one line and refreshes the stored estimate.
// Removing from a ready order reverts it to draft.
func (s *service) RemoveLine(ctx context.Context, orderID, itemID uuid.UUID) (*OrderDTO, error) {
	return s.mutateLines(ctx, orderID, func(repo *Repository, order *models.Order) error {
		item, err := s.loadItem(ctx, repo, orderID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove order line")
		}
		return nil
	})
}

// mutateLines runs one line mutation inside a transaction: lock check,
// the mutation itself, estimate refresh, and the ready-to-draft
// reversion all commit together.
func (s *service) mutateLines(ctx context.Context, orderID uuid.UUID, mutate func(repo *Repository, order *models.Order) error) (*OrderDTO, error) {
	var result *models.Order
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadHeader(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Editable() {
			return pkgerrors.New(pkgerrors.CodeOrderLocked, "order can no longer be edited").
				WithDetails(map[string]any{"order_id": orderID, "status": order.Status.String()})
		}
		if err := mutate(repo, order); err != nil {
			return err
		}

		estimate, err := s.estimateFromLines(ctx, repo, orderID)
		if err != nil {
			return err
		}
		order.TotalEstimate = estimate
		if order.Status == enums.OrderStatusReady {
			order.Status = enums.OrderStatusDraft
		}
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, result.ID)
}

// RecomputeEstimate returns the sum of quantity x current unit price
// over all lines without mutating stored state.
func (s *service) RecomputeEstimate(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.loadHeader(ctx, s.repo, orderID); err != nil {
		return decimal.Zero, err
	}
	return s.estimateFromLines(ctx, s.repo, orderID)
}

func (s *service) estimateFromLines(ctx context.Context, repo *Repository, orderID uuid.UUID) (decimal.Decimal, error) {
	items, err := repo.ListItems(ctx, orderID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
	}
	total := decimal.Zero
	for i := range items {
		total = total.Add(lineTotal(&items[i]))
	}
	return total, nil
}

func lineTotal(item *models.OrderItem) decimal.Decimal {
	if item.Product == nil {
		return decimal.Zero
	}
	return item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
}

// Transition moves the order one step forward through
// draft, ready, submitted, completed.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, input TransitionInput) (*OrderDTO, error) {
	target, err := enums.ParseOrderStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status")
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadHeader(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order status cannot change this way").
				WithDetails(map[string]any{
					"order_id": orderID,
					"from":     order.Status.String(),
					"to":       target.String(),
				})
		}

		switch target {
		case enums.OrderStatusReady:
			if err := s.checkReadiness(ctx, repo, order); err != nil {
				return err
			}
		case enums.OrderStatusSubmitted:
			confirmation := strings.TrimSpace(input.ConfirmationNumber)
			if confirmation == "" {
				return pkgerrors.New(pkgerrors.CodeIncompleteSubmission, "confirmation number is required").
					WithDetails(map[string]any{"order_id": orderID})
			}
			now := time.Now().UTC()
			order.ConfirmationNumber = &confirmation
			order.SubmittedDate = &now
			// Submitted lines stamp their program codes onto the
			// catalog products they ordered.
			if err := repo.MergeLineProgramsIntoProducts(ctx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record product programs")
			}
		case enums.OrderStatusCompleted:
			if input.ActualTotal == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "actual total is required to complete").
					WithDetails(map[string]any{"order_id": orderID})
			}
			order.ActualTotal = input.ActualTotal
		}

		order.Status = target
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, orderID.String()), "order status changed")
	return s.GetOrder(ctx, orderID)
}

// checkReadiness requires at least one line whose program set is
// non-empty and fully resolvable to active programs.
func (s *service) checkReadiness(ctx context.Context, repo *Repository, order *models.Order) error {
	items, err := repo.ListItems(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order has no lines").
			WithDetails(map[string]any{"order_id": order.ID})
	}
	for i := range items {
		if len(items[i].Programs) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyAllocation, "order line has no program allocation").
				WithDetails(map[string]any{"order_id": order.ID, "item_id": items[i].ID})
		}
		if _, err := s.resolvePrograms(ctx, items[i].Programs); err != nil {
			return err
		}
	}
	return nil
}

// AllocationBreakdown splits each line's quantity x unit price evenly
// across its listed programs and sums per program. Rounding remainders
// go to the line's first program so per-order totals are preserved.
func (s *service) AllocationBreakdown(ctx context.Context, orderID uuid.UUID) (*AllocationDTO, error) {
	if _, err := s.loadHeader(ctx, s.repo, orderID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
	}

	shares := map[string]decimal.Decimal{}
	total := decimal.Zero
	for i := range items {
		item := &items[i]
		if len(item.Programs) == 0 {
			continue
		}
		amount := lineTotal(item)
		total = total.Add(amount)

		count := decimal.NewFromInt(int64(len(item.Programs)))
		base := amount.Div(count).RoundDown(2)
		remainder := amount.Sub(base.Mul(count))
		for j, code := range item.Programs {
			share := base
			if j == 0 {
				share = share.Add(remainder)
			}
			shares[code] = shares[code].Add(share)
		}
	}

	codes := make([]string, 0, len(shares))
	for code := range shares {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	dto := &AllocationDTO{OrderID: orderID, Total: total, Shares: make([]ProgramShareDTO, 0, len(codes))}
	for _, code := range codes {
		dto.Shares = append(dto.Shares, ProgramShareDTO{Program: code, Amount: shares[code]})
	}
	return dto, nil
}

// DuplicateOrder copies the order's lines into a fresh draft.
func (s *service) DuplicateOrder(ctx context.Context, orderID uuid.UUID, newName string) (*OrderDTO, error) {
	source, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(newName)
	if name == "" {
		name = source.Name + " (copy)"
	}

	duplicate := &models.Order{
		ID:            uuid.New(),
		Name:          name,
		CreatedDate:   time.Now().UTC(),
		Status:        enums.OrderStatusDraft,
		TotalEstimate: decimal.Zero,
		Notes:         source.Notes,
		CreatedBy:     source.CreatedBy,
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, duplicate); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create duplicate order")
		}
		for i := range source.Items {
			src := &source.Items[i]
			item := &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   duplicate.ID,
				ProductID: src.ProductID,
				Quantity:  src.Quantity,
				Programs:  append(types.StringList(nil), src.Programs...),
				Notes:     src.Notes,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "copy order line")
			}
		}
		estimate, err := s.estimateFromLines(ctx, repo, duplicate.ID)
		if err != nil {
			return err
		}
		duplicate.TotalEstimate = estimate
		return repo.Save(ctx, duplicate)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, duplicate.ID)
}

func (s *service) validateLine(ctx context.Context, quantity int, programCodes []string) (types.StringList, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": quantity})
	}
	cleaned := make([]string, 0, len(programCodes))
	for _, code := range programCodes {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyAllocation, "at least one program is required")
	}
	return s.resolvePrograms(ctx, cleaned)
}

func (s *service) resolvePrograms(ctx context.Context, codes []string) (types.StringList, error) {
	resolved := types.StringList{}
	for _, code := range codes {
		program, err := s.programs.FindByShortCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, unknownProgramError(code)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve program")
		}
		if !program.IsActive {
			return nil, unknownProgramError(code)
		}
		resolved = resolved.AddUnique(program.ShortCode)
	}
	return resolved, nil
}

func (s *service) resolveActiveProduct(ctx context.Context, itemCode string) (*models.Product, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownProduct, "item code is required")
	}
	product, err := s.products.FindByItemCode(ctx, itemCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unknownProductError(itemCode)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve product")
	}
	if !product.IsActive {
		return nil, unknownProductError(itemCode)
	}
	return product, nil
}

func (s *service) loadOrder(ctx context.Context, repo *Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, orderLoadError(err, orderID)
	}
	return order, nil
}

func (s *service) loadHeader(ctx context.Context, repo *Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindHeader(ctx, orderID)
	if err != nil {
		return nil, orderLoadError(err, orderID)
	}
	return order, nil
}

func (s *service) loadItem(ctx context.Context, repo *Repository, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	item, err := repo.FindItem(ctx, orderID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order line not found").
				WithDetails(map[string]any{"order_id": orderID, "item_id": itemID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order line")
	}
	return item, nil
}

func orderLoadError(err error, orderID uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
			WithDetails(map[string]any{"order_id": orderID})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
}

func unknownProgramError(code string) error {
	return pkgerrors.New(pkgerrors.CodeUnknownProgram, "program is unknown or inactive").
		WithDetails(map[string]any{"short_code": code})
}

func unknownProductError(itemCode string) error {
	return pkgerrors.New(pkgerrors.CodeUnknownProduct, "product is unknown or inactive").
		WithDetails(map[string]any{"item_code": itemCode})
}
