package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeto/storefront-api/internal/application/cart"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
	"github.com/cafeto/storefront-api/pkg/logger"
)

// Config reglas del checkout.
type Config struct {
	ShippingFee decimal.Decimal // tarifa plana, aplicada solo con dirección elegida
	StagingTTL  time.Duration
}

// CheckoutUseCase deriva totales de las líneas seleccionadas y convierte un
// OrderIntent en pedido según el método de pago.
type CheckoutUseCase struct {
	cartUC      *cart.CartUseCase
	addressRepo repository.AddressRepository
	orderRepo   repository.OrderRepository
	staging     Staging
	gateway     PaymentGateway
	cfg         Config
	log         *logger.Logger
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(cartUC *cart.CartUseCase, addressRepo repository.AddressRepository, orderRepo repository.OrderRepository, staging Staging, gateway PaymentGateway, cfg Config, log *logger.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartUC:      cartUC,
		addressRepo: addressRepo,
		orderRepo:   orderRepo,
		staging:     staging,
		gateway:     gateway,
		cfg:         cfg,
		log:         log,
	}
}

// Summary recalcula los totales sobre las líneas seleccionadas:
// subtotal = Σ(precio×cantidad), descuento = Σ(descuento×cantidad),
// total = subtotal + envío − descuento. El envío plano solo aplica con dirección.
func (uc *CheckoutUseCase) Summary(userID, addressID string) (*dto.CheckoutSummaryResponse, error) {
	lines, err := uc.cartUC.SelectedLines(userID)
	if err != nil {
		return nil, err
	}
	subtotal, discount := totals(lines)
	shipping := decimal.Zero
	if addressID != "" {
		shipping = uc.cfg.ShippingFee
	}
	return &dto.CheckoutSummaryResponse{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shipping,
		Total:       subtotal.Add(shipping).Sub(discount),
		CanSubmit:   subtotal.GreaterThan(decimal.Zero) && addressID != "",
	}, nil
}

// Submit valida, deja el OrderIntent en staging y bifurca por método de pago.
// Con subtotal ≤ 0 o sin dirección el envío queda bloqueado: no se toca la
// pasarela ni se crea pedido.
func (uc *CheckoutUseCase) Submit(userID string, in dto.SubmitCheckoutRequest) (*dto.CheckoutResultResponse, error) {
	if in.AddressID == "" {
		return nil, domain.ErrNoAddressChosen
	}
	lines, err := uc.cartUC.SelectedLines(userID)
	if err != nil {
		return nil, err
	}
	subtotal, discount := totals(lines)
	if !subtotal.GreaterThan(decimal.Zero) {
		return nil, domain.ErrNothingSelected
	}
	address, err := uc.addressRepo.GetByID(in.AddressID)
	if err != nil {
		return nil, err
	}
	if address == nil || address.UserID != userID {
		return nil, domain.ErrNoAddressChosen
	}

	shipping := uc.cfg.ShippingFee
	intent := dto.OrderIntent{
		UserID:        userID,
		AddressID:     in.AddressID,
		PaymentMethod: in.PaymentMethod,
		Lines:         toIntentLines(lines),
		Subtotal:      subtotal,
		Discount:      discount,
		ShippingFee:   shipping,
		Total:         subtotal.Add(shipping).Sub(discount),
		CreatedAt:     time.Now(),
	}
	if err := uc.staging.StageIntent(userID, intent, uc.cfg.StagingTTL); err != nil {
		return nil, err
	}
	if err := uc.staging.StageAddress(userID, in.AddressID, uc.cfg.StagingTTL); err != nil {
		return nil, err
	}

	switch in.PaymentMethod {
	case entity.PaymentCOD:
		order, err := uc.createOrder(intent, address)
		if err != nil {
			return nil, err
		}
		if err := uc.cartUC.ClearPurchased(userID); err != nil {
			return nil, err
		}
		return &dto.CheckoutResultResponse{Status: "success", OrderID: order.ID}, nil

	case entity.PaymentOnline:
		payURL, err := uc.gateway.RequestRedirect(intent)
		if err != nil {
			// La pasarela no reportó éxito: el cliente navega a la vista de fallo.
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("pasarela de pago sin éxito")
			return &dto.CheckoutResultResponse{Status: "failed"}, nil
		}
		order, err := uc.createOrder(intent, address)
		if err != nil {
			return nil, err
		}
		if err := uc.cartUC.ClearPurchased(userID); err != nil {
			return nil, err
		}
		return &dto.CheckoutResultResponse{Status: "redirect", OrderID: order.ID, PayURL: payURL}, nil

	default:
		return nil, domain.ErrInvalidInput
	}
}

func (uc *CheckoutUseCase) createOrder(intent dto.OrderIntent, address *entity.Address) (*entity.Order, error) {
	now := time.Now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		UserID:        intent.UserID,
		AddressID:     address.ID,
		Recipient:     address.Recipient,
		Phone:         address.Phone,
		Street:        address.Street,
		City:          address.City,
		PaymentMethod: intent.PaymentMethod,
		Status:        entity.OrderPending,
		Subtotal:      intent.Subtotal,
		Discount:      intent.Discount,
		ShippingFee:   intent.ShippingFee,
		Total:         intent.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, l := range intent.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			UnitDisc:  l.UnitDisc,
		})
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func totals(lines []*entity.CartLine) (subtotal, discount decimal.Decimal) {
	subtotal, discount = decimal.Zero, decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		subtotal = subtotal.Add(l.Price.Mul(qty))
		discount = discount.Add(l.Discount.Mul(qty))
	}
	return subtotal, discount
}

func toIntentLines(lines []*entity.CartLine) []dto.OrderIntentLine {
	out := make([]dto.OrderIntentLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.OrderIntentLine{
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
			UnitDisc:  l.Discount,
		})
	}
	return out
}
