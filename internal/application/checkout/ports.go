package checkout

import (
	"time"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain/entity"
)

// PaymentGateway colaborador externo de pago online: entrega la URL de
// redirección para un intent. Cualquier envelope sin código de éxito se
// reporta como error.
type PaymentGateway interface {
	RequestRedirect(intent dto.OrderIntent) (payURL string, err error)
}

// Staging escritura transitoria del checkout (Redis con TTL): el último
// OrderIntent y la última dirección de envío, sobreescritos en cada checkout.
type Staging interface {
	StageIntent(userID string, intent dto.OrderIntent, ttl time.Duration) error
	StageAddress(userID, addressID string, ttl time.Duration) error
}

// ReceiptGenerator representación PDF de un pedido confirmado.
type ReceiptGenerator interface {
	Generate(order *entity.Order) ([]byte, error)
}
