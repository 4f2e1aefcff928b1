package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafeto/storefront-api/internal/application/cart"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeCartRepo struct {
	lines map[string]*entity.CartLine
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: map[string]*entity.CartLine{}}
}

func (r *fakeCartRepo) ListByUser(userID string) ([]*entity.CartLine, error) {
	var out []*entity.CartLine
	for _, l := range r.lines {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) GetByID(id string) (*entity.CartLine, error) {
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeCartRepo) GetByUserAndVariant(userID, variantID string) (*entity.CartLine, error) {
	for _, l := range r.lines {
		if l.UserID == userID && l.VariantID == variantID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Create(line *entity.CartLine) error {
	cp := *line
	r.lines[line.ID] = &cp
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(id string, quantity int) error {
	r.lines[id].Quantity = quantity
	return nil
}

func (r *fakeCartRepo) UpdateSelected(id string, selected bool) error {
	r.lines[id].Selected = selected
	return nil
}

func (r *fakeCartRepo) UpdateSelectedByUser(userID string, selected bool, maxStockOnly bool) error {
	for _, l := range r.lines {
		if l.UserID != userID {
			continue
		}
		if maxStockOnly && l.Quantity > l.Stock {
			continue
		}
		l.Selected = selected
	}
	return nil
}

func (r *fakeCartRepo) Delete(id string) error {
	delete(r.lines, id)
	return nil
}

func (r *fakeCartRepo) DeleteSelectedByUser(userID string) error {
	for id, l := range r.lines {
		if l.UserID == userID && l.Selected {
			delete(r.lines, id)
		}
	}
	return nil
}

type fakeProductRepo struct {
	variants map[string]*entity.ProductVariant
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{variants: map[string]*entity.ProductVariant{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error        { return nil }
func (r *fakeProductRepo) GetByID(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error        { return nil }
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}
func (r *fakeProductRepo) Delete(string) error { return nil }

func (r *fakeProductRepo) GetVariant(variantID string) (*entity.ProductVariant, error) {
	v, ok := r.variants[variantID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeProductRepo) UpsertVariant(v *entity.ProductVariant) error {
	cp := *v
	r.variants[v.ID] = &cp
	return nil
}

func (r *fakeProductRepo) DeleteVariant(variantID string) error {
	delete(r.variants, variantID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "user-1"

func buildCartUC(t *testing.T, stock int) (*cart.CartUseCase, *fakeCartRepo, *fakeProductRepo) {
	t.Helper()
	cartRepo := newFakeCartRepo()
	productRepo := newFakeProductRepo()
	require.NoError(t, productRepo.UpsertVariant(&entity.ProductVariant{
		ID:        "variant-1",
		ProductID: "product-1",
		Size:      "M",
		Price:     decimal.NewFromInt(100000),
		Discount:  decimal.NewFromInt(10000),
		Stock:     stock,
	}))
	return cart.NewCartUseCase(cartRepo, productRepo), cartRepo, productRepo
}

func lineFor(t *testing.T, out *dto.CartResponse, variantID string) dto.CartLineResponse {
	t.Helper()
	for _, it := range out.Items {
		if it.VariantID == variantID {
			return it
		}
	}
	t.Fatalf("no existe línea para la variante %s", variantID)
	return dto.CartLineResponse{}
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem / UpdateQuantity: recorte a [1, stock]
// ──────────────────────────────────────────────────────────────────────────────

// Añadir más unidades que el stock deja la cantidad recortada al stock.
func TestAddItem_RecortaAlStock(t *testing.T) {
	uc, _, _ := buildCartUC(t, 5)

	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 99})
	require.NoError(t, err)

	line := lineFor(t, out, "variant-1")
	assert.Equal(t, 5, line.Quantity, "la cantidad debe recortarse al stock")
	assert.True(t, line.Selected, "una línea nueva entra seleccionada")
}

// Añadir la misma variante dos veces fusiona cantidades (también con recorte).
func TestAddItem_FusionaLineasDeLaMismaVariante(t *testing.T) {
	uc, _, _ := buildCartUC(t, 10)

	_, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 4})
	require.NoError(t, err)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 8})
	require.NoError(t, err)

	require.Len(t, out.Items, 1, "la misma variante no debe duplicar líneas")
	assert.Equal(t, 10, out.Items[0].Quantity, "4+8 se recorta al stock 10")
}

// Variante sin stock: se rechaza la adición.
func TestAddItem_SinStockRechaza(t *testing.T) {
	uc, _, _ := buildCartUC(t, 0)

	_, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

// Cantidad pedida por debajo de 1: rechazo sin mutación.
func TestUpdateQuantity_PorDebajoDelMinimoRechazaSinMutar(t *testing.T) {
	uc, repo, _ := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 3})
	require.NoError(t, err)
	lineID := out.Items[0].ID

	_, err = uc.UpdateQuantity(testUser, lineID, 0)
	assert.ErrorIs(t, err, domain.ErrQuantityBelowMin)

	stored, _ := repo.GetByID(lineID)
	assert.Equal(t, 3, stored.Quantity, "la cantidad almacenada no debe cambiar tras el rechazo")
}

// Cantidad por encima del stock: recorte al stock.
func TestUpdateQuantity_PorEncimaDelStockRecorta(t *testing.T) {
	uc, _, _ := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 2})
	require.NoError(t, err)

	out, err = uc.UpdateQuantity(testUser, out.Items[0].ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Items[0].Quantity)
}

// Una línea de otro usuario no es visible ni mutable.
func TestUpdateQuantity_LineaAjenaNoExiste(t *testing.T) {
	uc, _, _ := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 2})
	require.NoError(t, err)

	_, err = uc.UpdateQuantity("otro-user", out.Items[0].ID, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección
// ──────────────────────────────────────────────────────────────────────────────

// Seleccionar una línea cuya cantidad supera el stock vigente se rechaza.
func TestUpdateSelected_LineaSobreStockRechaza(t *testing.T) {
	uc, repo, productRepo := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 5})
	require.NoError(t, err)
	lineID := out.Items[0].ID

	// El stock cae después de añadir; se deselecciona en la reconciliación.
	require.NoError(t, productRepo.UpsertVariant(&entity.ProductVariant{
		ID: "variant-1", ProductID: "product-1", Size: "M",
		Price: decimal.NewFromInt(100000), Discount: decimal.NewFromInt(10000), Stock: 2,
	}))
	repo.lines[lineID].Stock = 2

	_, err = uc.UpdateSelected(testUser, lineID, true)
	assert.ErrorIs(t, err, domain.ErrLineNotSelectable)
}

// "Seleccionar todo" marca solo las líneas que caben en stock.
func TestSelectAll_SoloLineasDentroDeStock(t *testing.T) {
	uc, repo, productRepo := buildCartUC(t, 10)
	require.NoError(t, productRepo.UpsertVariant(&entity.ProductVariant{
		ID: "variant-2", ProductID: "product-1", Size: "L",
		Price: decimal.NewFromInt(120000), Discount: decimal.Zero, Stock: 10,
	}))

	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 3})
	require.NoError(t, err)
	out, err = uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-2", Quantity: 4})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	// Deseleccionar todo y dejar una línea por encima del stock.
	_, err = uc.SelectAll(testUser, false)
	require.NoError(t, err)
	for id, l := range repo.lines {
		if l.VariantID == "variant-2" {
			repo.lines[id].Stock = 2 // cantidad 4 > stock 2
		}
	}

	out, err = uc.SelectAll(testUser, true)
	require.NoError(t, err)

	selectable := lineFor(t, out, "variant-1")
	overStock := lineFor(t, out, "variant-2")
	assert.True(t, selectable.Selected, "la línea dentro de stock debe quedar seleccionada")
	assert.False(t, overStock.Selected, "la línea sobre stock no debe entrar en la selección masiva")
	assert.True(t, out.AllSelected, "all_selected se calcula solo sobre líneas seleccionables")
}

// La reconciliación de GetCart deselecciona (y persiste) las líneas sobre stock.
func TestGetCart_ReconciliaSeleccionSobreStock(t *testing.T) {
	uc, repo, _ := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 5})
	require.NoError(t, err)
	lineID := out.Items[0].ID

	// El stock del snapshot cae por debajo de la cantidad.
	repo.lines[lineID].Stock = 3

	out, err = uc.GetCart(testUser)
	require.NoError(t, err)
	assert.False(t, out.Items[0].Selected, "línea sobre stock pierde la selección")

	stored, _ := repo.GetByID(lineID)
	assert.False(t, stored.Selected, "la deselección debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado
// ──────────────────────────────────────────────────────────────────────────────

// La línea desaparece solo cuando el repositorio confirma el borrado.
func TestDeleteLine_EliminaYDevuelveCarritoActualizado(t *testing.T) {
	uc, _, _ := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 2})
	require.NoError(t, err)

	out, err = uc.DeleteLine(testUser, out.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestDeleteLine_LineaAjenaRechaza(t *testing.T) {
	uc, repo, _ := buildCartUC(t, 5)
	out, err := uc.AddItem(testUser, dto.AddCartItemRequest{VariantID: "variant-1", Quantity: 2})
	require.NoError(t, err)

	_, err = uc.DeleteLine("otro-user", out.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, repo.lines, 1, "la línea ajena debe seguir en el carrito")
}
