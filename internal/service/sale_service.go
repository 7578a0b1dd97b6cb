package service

import (
	"context"
	"fmt"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Checkout(ctx context.Context, actor Actor, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	Settle(ctx context.Context, actor Actor, saleID uuid.UUID, req dto.SettlementRequest) (*dto.SaleResponse, error)
	WriteOff(ctx context.Context, actor Actor, saleID uuid.UUID, reason string) error
	FindByID(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, actor Actor, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	sessionRepo repository.SessionRepository
	inventory   InventoryService
	cashback    CashbackService
	dispatcher  *worker.Dispatcher
	auditor     *Auditor
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	sessionRepo repository.SessionRepository,
	inventory InventoryService,
	cashback CashbackService,
	dispatcher *worker.Dispatcher,
	auditor *Auditor,
) SaleService {
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		sessionRepo: sessionRepo,
		inventory:   inventory,
		cashback:    cashback,
		dispatcher:  dispatcher,
		auditor:     auditor,
	}
}

// resolvedItem is a checkout line with its catalog snapshot frozen at sale
// time — later product edits never change what was sold.
type resolvedItem struct {
	productID uuid.UUID
	variantID *uuid.UUID
	name      string
	sku       string
	unitPrice decimal.Decimal
	costPrice decimal.Decimal
	taxRate   decimal.Decimal
	quantity  decimal.Decimal
	tracked   bool
	line      MoneyLine
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// One ACID transaction, all-or-nothing:
//   1. Validate the cashier's open session
//   2. Resolve each item against the catalog (branch ownership, variants)
//   3. Compute amounts, validate payments / credit terms
//   4. BEGIN TX: next receipt number, create sale+items+payments, deduct
//      stock (purchase) or debit cashback capital (cashback)
//   5. COMMIT
//   6. (async) receipt projection + audit event — never blocks the commit

func (s *saleService) Checkout(ctx context.Context, actor Actor, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	kind := req.Kind
	if kind == "" {
		kind = model.SaleKindPurchase
	}

	// 1. The acting session — checkout always happens inside an open shift.
	session, err := s.sessionRepo.FindOpen(ctx, actor.BranchID, actor.UserID)
	if err != nil {
		return nil, ErrNoOpenSession
	}

	// 2. Resolve items and compute amounts (pre-flight, outside TX).
	var resolved []resolvedItem
	var totals MoneyTotals
	var cashbackAmount, serviceCharge decimal.Decimal

	switch kind {
	case model.SaleKindPurchase:
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("a purchase requires at least one item")
		}
		resolved, err = s.resolveItems(ctx, actor, req.Items)
		if err != nil {
			return nil, err
		}
		lines := make([]MoneyLine, len(resolved))
		for i, r := range resolved {
			lines[i] = r.line
		}
		totals = Aggregate(lines, req.Discount)
		if totals.Total.IsNegative() {
			return nil, fmt.Errorf("discount %s exceeds the sale amount %s",
				totals.Discount.String(), totals.Subtotal.Add(totals.Tax).String())
		}

	case model.SaleKindCashback:
		if req.CashbackAmount == nil || !req.CashbackAmount.IsPositive() {
			return nil, fmt.Errorf("cashback_amount must be positive")
		}
		cashbackAmount = RoundMoney(*req.CashbackAmount)
		if req.ServiceCharge != nil {
			serviceCharge = RoundMoney(*req.ServiceCharge)
		}
		totals = MoneyTotals{
			Subtotal: cashbackAmount,
			Tax:      decimal.Zero,
			Discount: decimal.Zero,
			Total:    cashbackAmount.Add(serviceCharge),
		}

	default:
		return nil, fmt.Errorf("unknown transaction kind %q", kind)
	}

	// 3. Payment allocation.
	paid := decimal.Zero
	for _, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return nil, fmt.Errorf("payment amounts must be positive")
		}
		paid = paid.Add(p.Amount)
	}

	var (
		amountPaid    decimal.Decimal
		amountDue     decimal.Decimal
		changeGiven   decimal.Decimal
		paymentStatus string
		creditStatus  *string
	)

	if req.IsCreditSale {
		if emptyStr(req.CustomerName) && emptyStr(req.CustomerPhone) {
			return nil, ErrInvalidCreditInfo
		}
		if paid.GreaterThanOrEqual(totals.Total) {
			return nil, fmt.Errorf("credit sale payments must be below the total; take a normal sale instead")
		}
		amountPaid = paid
		amountDue = totals.Total.Sub(paid)
		changeGiven = decimal.Zero
		status := model.CreditStatusOpen
		creditStatus = &status
		if paid.IsZero() {
			paymentStatus = model.PaymentStatusPending
		} else {
			paymentStatus = model.PaymentStatusPartial
		}
	} else {
		if paid.LessThan(totals.Total) {
			return nil, &InsufficientPaymentError{Shortfall: totals.Total.Sub(paid)}
		}
		amountPaid = totals.Total
		amountDue = decimal.Zero
		changeGiven = paid.Sub(totals.Total)
		paymentStatus = model.PaymentStatusPaid
	}

	// 4. ACID transaction.
	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		receiptNum, err := s.repo.NextReceiptNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			ReceiptNumber:  receiptNum,
			BranchID:       actor.BranchID,
			SessionID:      session.ID,
			UserID:         actor.UserID,
			Kind:           kind,
			Subtotal:       totals.Subtotal,
			TaxAmount:      totals.Tax,
			DiscountAmount: totals.Discount,
			TotalAmount:    totals.Total,
			AmountPaid:     amountPaid,
			AmountDue:      amountDue,
			ChangeGiven:    changeGiven,
			PaymentStatus:  paymentStatus,
			IsCreditSale:   req.IsCreditSale,
			CreditStatus:   creditStatus,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			Notes:          req.Notes,
		}
		if kind == model.SaleKindCashback {
			sale.CashbackAmount = &cashbackAmount
			sale.ServiceCharge = &serviceCharge
		}

		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: r.productID,
				VariantID: r.variantID,
				Name:      r.name,
				SKU:       r.sku,
				UnitPrice: r.unitPrice,
				CostPrice: r.costPrice,
				Quantity:  r.quantity,
				TaxRate:   r.taxRate,
				TaxAmount: r.line.Tax,
				Subtotal:  r.line.Subtotal,
				Total:     r.line.Total,
			})
		}
		for _, p := range req.Payments {
			sale.Payments = append(sale.Payments, model.Payment{
				Method:    p.Method,
				Amount:    p.Amount,
				Reference: p.Reference,
				Notes:     p.Notes,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		switch kind {
		case model.SaleKindPurchase:
			// Deduct stock for every tracked item; any failure aborts the
			// whole checkout — no partial deduction.
			saleRef := sale.ID
			reason := fmt.Sprintf("Sale #%d", receiptNum)
			for _, r := range resolved {
				if !r.tracked {
					continue
				}
				target := stockTargetFor(r)
				if _, err := s.inventory.AdjustTx(ctx, tx, target, r.quantity.Neg(), model.StockChangeSale, &reason, &saleRef); err != nil {
					return err
				}
			}
		case model.SaleKindCashback:
			if _, err := s.cashback.DebitTx(ctx, tx, actor.BranchID, cashbackAmount); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 5. Receipt projection + audit — best-effort, fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			SaleID:        sale.ID.String(),
			CustomerEmail: req.CustomerEmail,
		})
	}
	s.auditor.Record(ctx, actor, "sale.checkout", "sale", sale.ID.String(), nil, &sale)

	resp := saleToResponse(&sale)
	return resp, nil
}

func (s *saleService) resolveItems(ctx context.Context, actor Actor, items []dto.CheckoutItemRequest) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("quantity must be positive")
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrNotFound)
		}
		if p.BranchID != actor.BranchID {
			return nil, ErrForbiddenBranch
		}
		if !p.Active {
			return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}

		r := resolvedItem{
			productID: p.ID,
			quantity:  item.Quantity,
			taxRate:   p.TaxRate,
		}

		if p.HasVariants {
			if item.VariantID == nil {
				return nil, ErrVariantRequired
			}
			vid, err := uuid.Parse(*item.VariantID)
			if err != nil {
				return nil, fmt.Errorf("invalid variant_id: %w", err)
			}
			v, err := s.productRepo.FindVariantByID(ctx, vid)
			if err != nil || v.ProductID != p.ID {
				return nil, fmt.Errorf("variant %s: %w", *item.VariantID, ErrNotFound)
			}
			if !v.Active {
				return nil, fmt.Errorf("variant %s is inactive and cannot be sold", v.Name)
			}
			variantID := v.ID
			r.variantID = &variantID
			r.name = v.Name
			r.sku = v.SKU
			r.unitPrice = v.SellingPrice
			r.costPrice = v.CostPrice
			r.tracked = v.TracksInventory()
		} else {
			r.name = p.Name
			r.sku = p.SKU
			r.unitPrice = p.SellingPrice
			r.costPrice = p.CostPrice
			r.tracked = p.TracksInventory()
		}

		r.line = ComputeLine(r.unitPrice, r.quantity, r.taxRate)
		resolved = append(resolved, r)
	}
	return resolved, nil
}

func stockTargetFor(r resolvedItem) StockTarget {
	if r.variantID != nil {
		return VariantTarget{VariantID: *r.variantID, ProductID: r.productID}
	}
	return ProductTarget{ProductID: r.productID}
}

// ── Settle ────────────────────────────────────────────────────────────────────
// Applies a later payment to an open credit sale. Overpayment policy: the
// payment row is recorded as submitted, AmountPaid is capped at the total and
// the surplus is returned as change at settlement time (added to ChangeGiven).

func (s *saleService) Settle(ctx context.Context, actor Actor, saleID uuid.UUID, req dto.SettlementRequest) (*dto.SaleResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("settlement amount must be positive")
	}

	var sale *model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sale, err = s.repo.FindByIDForUpdate(tx, saleID)
		if err != nil {
			return fmt.Errorf("sale %s: %w", saleID, ErrNotFound)
		}
		if sale.BranchID != actor.BranchID {
			return ErrForbiddenBranch
		}
		if !sale.IsCreditSale {
			return ErrNotCreditSale
		}
		if sale.CreditStatus == nil || *sale.CreditStatus != model.CreditStatusOpen {
			return ErrAlreadySettled
		}

		payment := &model.Payment{
			SaleID:       sale.ID,
			Method:       req.Method,
			Amount:       req.Amount,
			IsSettlement: true,
			Reference:    req.Reference,
			Notes:        req.Notes,
		}
		if err := s.repo.CreatePaymentTx(tx, payment); err != nil {
			return err
		}
		sale.Payments = append(sale.Payments, *payment)

		newPaid := sale.AmountPaid.Add(req.Amount)
		if newPaid.GreaterThan(sale.TotalAmount) {
			surplus := newPaid.Sub(sale.TotalAmount)
			sale.ChangeGiven = sale.ChangeGiven.Add(surplus)
			newPaid = sale.TotalAmount
		}
		sale.AmountPaid = newPaid
		sale.AmountDue = sale.TotalAmount.Sub(newPaid)

		if sale.AmountDue.IsZero() {
			settled := model.CreditStatusSettled
			sale.CreditStatus = &settled
			sale.PaymentStatus = model.PaymentStatusPaid
		} else {
			sale.PaymentStatus = model.PaymentStatusPartial
		}

		return s.repo.SaveTx(tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Record(ctx, actor, "sale.settle", "sale", sale.ID.String(), nil, sale)
	return saleToResponse(sale), nil
}

// ── WriteOff ──────────────────────────────────────────────────────────────────
// Administratively marks an open credit sale as unrecoverable. Terminal — no
// further settlement is accepted. Authorization is enforced at the route.

func (s *saleService) WriteOff(ctx context.Context, actor Actor, saleID uuid.UUID, reason string) error {
	var sale *model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sale, err = s.repo.FindByIDForUpdate(tx, saleID)
		if err != nil {
			return fmt.Errorf("sale %s: %w", saleID, ErrNotFound)
		}
		if sale.BranchID != actor.BranchID {
			return ErrForbiddenBranch
		}
		if !sale.IsCreditSale {
			return ErrNotCreditSale
		}
		if sale.CreditStatus == nil || *sale.CreditStatus != model.CreditStatusOpen {
			return ErrAlreadySettled
		}

		writtenOff := model.CreditStatusWrittenOff
		sale.CreditStatus = &writtenOff
		note := reason
		if sale.Notes != nil && *sale.Notes != "" {
			note = *sale.Notes + " | written off: " + reason
		}
		sale.Notes = &note
		return s.repo.SaveTx(tx, sale)
	})
	if txErr != nil {
		return txErr
	}

	s.auditor.Record(ctx, actor, "sale.write_off", "sale", sale.ID.String(),
		map[string]string{"credit_status": model.CreditStatusOpen},
		map[string]string{"credit_status": model.CreditStatusWrittenOff, "reason": reason})
	return nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) FindByID(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
	}
	if sale.BranchID != actor.BranchID {
		return nil, ErrForbiddenBranch
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, actor Actor, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, actor.BranchID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		it := dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			SKU:       item.SKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			TaxRate:   item.TaxRate,
			TaxAmount: item.TaxAmount,
			Subtotal:  item.Subtotal,
			Total:     item.Total,
		}
		if item.VariantID != nil {
			vid := item.VariantID.String()
			it.VariantID = &vid
		}
		items = append(items, it)
	}

	payments := make([]dto.PaymentResponse, 0, len(sale.Payments))
	for _, p := range sale.Payments {
		payments = append(payments, dto.PaymentResponse{
			Method:       p.Method,
			Amount:       p.Amount,
			IsSettlement: p.IsSettlement,
			Reference:    p.Reference,
			CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.SaleResponse{
		ID:             sale.ID.String(),
		ReceiptNumber:  sale.ReceiptNumber,
		Kind:           sale.Kind,
		Items:          items,
		Payments:       payments,
		Subtotal:       sale.Subtotal,
		TaxAmount:      sale.TaxAmount,
		DiscountAmount: sale.DiscountAmount,
		TotalAmount:    sale.TotalAmount,
		AmountPaid:     sale.AmountPaid,
		AmountDue:      sale.AmountDue,
		ChangeGiven:    sale.ChangeGiven,
		CashbackAmount: sale.CashbackAmount,
		ServiceCharge:  sale.ServiceCharge,
		PaymentStatus:  sale.PaymentStatus,
		IsCreditSale:   sale.IsCreditSale,
		CreditStatus:   sale.CreditStatus,
		CustomerName:   sale.CustomerName,
		CustomerPhone:  sale.CustomerPhone,
		CreatedAt:      sale.CreatedAt.Format(time.RFC3339),
	}
}

func emptyStr(s *string) bool { return s == nil || *s == "" }
