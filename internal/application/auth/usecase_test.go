package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cafeto/storefront-api/internal/application/auth"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
)

// ─────────────────────────── fakes ───────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User // por id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, int, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

type pendingEntry struct {
	code string
	reg  auth.PendingRegistration
}

type fakeOTPStore struct {
	pending map[string]pendingEntry
	gets    int
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{pending: map[string]pendingEntry{}}
}

func (s *fakeOTPStore) SavePending(email, code string, reg auth.PendingRegistration, ttl time.Duration) error {
	s.pending[email] = pendingEntry{code: code, reg: reg}
	return nil
}

func (s *fakeOTPStore) GetPending(email string) (string, *auth.PendingRegistration, error) {
	s.gets++
	e, ok := s.pending[email]
	if !ok {
		return "", nil, nil
	}
	reg := e.reg
	return e.code, &reg, nil
}

func (s *fakeOTPStore) DeletePending(email string) error {
	delete(s.pending, email)
	return nil
}

type fakeRefreshStore struct {
	tokens  map[string]string // token -> userID
	revoked []string
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[string]string{}}
}

func (s *fakeRefreshStore) Save(token, userID string, ttl time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeRefreshStore) UserID(token string) (string, error) {
	return s.tokens[token], nil
}

func (s *fakeRefreshStore) Revoke(token string) error {
	delete(s.tokens, token)
	s.revoked = append(s.revoked, token)
	return nil
}

type fakeSender struct {
	sent []string // "email:code"
}

func (s *fakeSender) Send(email, code string) error {
	s.sent = append(s.sent, email+":"+code)
	return nil
}

// ─────────────────────────── helpers ───────────────────────────

type fixture struct {
	uc      *auth.AuthUseCase
	users   *fakeUserRepo
	otps    *fakeOTPStore
	refresh *fakeRefreshStore
	sender  *fakeSender
}

func buildAuthUC(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   newFakeUserRepo(),
		otps:    newFakeOTPStore(),
		refresh: newFakeRefreshStore(),
		sender:  &fakeSender{},
	}
	cfg := auth.JWTConfig{Secret: "secreto-de-pruebas", ExpMinutes: 15, RefreshDays: 7, Issuer: "storefront-test"}
	f.uc = auth.NewAuthUseCase(f.users, f.otps, f.refresh, f.sender, cfg, 5*time.Minute)
	return f
}

func (f *fixture) seedUser(t *testing.T, id, email, password, role, status string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.users.users[id] = &entity.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Usuario " + id,
		Role:         role,
		Status:       status,
	}
}

// ─────────────────────────── registro + OTP ───────────────────────────

func TestRegister_DejaPendienteYEnviaCodigo(t *testing.T) {
	f := buildAuthUC(t)

	err := f.uc.Register(dto.RegisterRequest{Email: "ana@cafe.test", Password: "secreta123", Name: "Ana"})
	require.NoError(t, err)

	e, ok := f.otps.pending["ana@cafe.test"]
	require.True(t, ok, "el registro queda pendiente en el store")
	assert.Len(t, e.code, 4)
	assert.Equal(t, "Ana", e.reg.Name)
	assert.NotEqual(t, "secreta123", e.reg.PasswordHash, "nunca se guarda la contraseña en claro")

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "ana@cafe.test:"+e.code, f.sender.sent[0])

	// El usuario aún no existe: solo se crea al verificar.
	u, err := f.users.GetByEmail("ana@cafe.test")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRegister_EmailYaRegistradoRechaza(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "active")

	err := f.uc.Register(dto.RegisterRequest{Email: "ana@cafe.test", Password: "otra12345"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Empty(t, f.sender.sent, "no se envía código para un email ya registrado")
}

func TestVerifyOTP_FormatoInvalidoNoTocaElStore(t *testing.T) {
	f := buildAuthUC(t)

	for _, otp := range []string{"", "123", "12345", "12a4", "ab", "١٢٣٤"} {
		_, err := f.uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@cafe.test", OTP: otp})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "otp %q", otp)
	}
	assert.Zero(t, f.otps.gets, "el formato se valida antes de consultar el store")
}

func TestVerifyOTP_CodigoIncorrectoRechaza(t *testing.T) {
	f := buildAuthUC(t)
	require.NoError(t, f.uc.Register(dto.RegisterRequest{Email: "ana@cafe.test", Password: "secreta123"}))

	wrong := "0000"
	if f.otps.pending["ana@cafe.test"].code == "0000" {
		wrong = "9999"
	}
	_, err := f.uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@cafe.test", OTP: wrong})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)

	u, _ := f.users.GetByEmail("ana@cafe.test")
	assert.Nil(t, u, "un código incorrecto no crea el usuario")
}

func TestVerifyOTP_CodigoCorrectoCreaClienteYAbreSesion(t *testing.T) {
	f := buildAuthUC(t)
	require.NoError(t, f.uc.Register(dto.RegisterRequest{Email: "ana@cafe.test", Password: "secreta123", Name: "Ana"}))
	code := f.otps.pending["ana@cafe.test"].code

	out, err := f.uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@cafe.test", OTP: code})
	require.NoError(t, err)

	assert.Equal(t, "ana@cafe.test", out.User.Email)
	assert.Equal(t, entity.RoleCustomer, out.User.Role, "la verificación siempre crea clientes")
	assert.NotEmpty(t, out.Tokens.AccessToken)
	assert.NotEmpty(t, out.Tokens.RefreshToken)

	assert.Equal(t, out.User.ID, f.refresh.tokens[out.Tokens.RefreshToken], "el refresh queda registrado a nombre del usuario")
	_, ok := f.otps.pending["ana@cafe.test"]
	assert.False(t, ok, "el código consumido se elimina")
}

// ─────────────────────────── login ───────────────────────────

func TestLogin_CredencialesValidasEmiteSesion(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "active")

	out, err := f.uc.Login(dto.LoginRequest{Email: "ana@cafe.test", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.User.ID)
	assert.NotEmpty(t, out.Tokens.AccessToken)
	assert.Equal(t, "u1", f.refresh.tokens[out.Tokens.RefreshToken])
}

func TestLogin_PasswordIncorrectoRechaza(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "active")

	_, err := f.uc.Login(dto.LoginRequest{Email: "ana@cafe.test", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, f.refresh.tokens, "un login fallido no deja sesión")
}

func TestLogin_UsuarioInexistenteRechaza(t *testing.T) {
	f := buildAuthUC(t)

	_, err := f.uc.Login(dto.LoginRequest{Email: "nadie@cafe.test", Password: "loquesea1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivoRechaza(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "disabled")

	_, err := f.uc.Login(dto.LoginRequest{Email: "ana@cafe.test", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─────────────────────────── refresh + logout ───────────────────────────

func TestRefresh_RotaYRevocaElAnterior(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "active")
	first, err := f.uc.Login(dto.LoginRequest{Email: "ana@cafe.test", Password: "secreta123"})
	require.NoError(t, err)

	second, err := f.uc.Refresh(dto.RefreshRequest{RefreshToken: first.Tokens.RefreshToken})
	require.NoError(t, err)

	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken, "la rotación emite un token nuevo")
	assert.Contains(t, f.refresh.revoked, first.Tokens.RefreshToken, "el token anterior queda revocado")

	// El token viejo ya no sirve.
	_, err = f.uc.Refresh(dto.RefreshRequest{RefreshToken: first.Tokens.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
}

func TestRefresh_TokenDesconocidoRechaza(t *testing.T) {
	f := buildAuthUC(t)

	_, err := f.uc.Refresh(dto.RefreshRequest{RefreshToken: "token-inventado"})
	assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
}

func TestRefresh_UsuarioInactivoInvalidaLaSesion(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "active")
	out, err := f.uc.Login(dto.LoginRequest{Email: "ana@cafe.test", Password: "secreta123"})
	require.NoError(t, err)

	f.users.users["u1"].Status = "disabled"

	_, err = f.uc.Refresh(dto.RefreshRequest{RefreshToken: out.Tokens.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
}

func TestLogout_RevocaElRefresh(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleCustomer, "active")
	out, err := f.uc.Login(dto.LoginRequest{Email: "ana@cafe.test", Password: "secreta123"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(dto.LogoutRequest{RefreshToken: out.Tokens.RefreshToken}))

	_, err = f.uc.Refresh(dto.RefreshRequest{RefreshToken: out.Tokens.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrInvalidRefresh)
}

func TestMe_DevuelveLaIdentidadSinHash(t *testing.T) {
	f := buildAuthUC(t)
	f.seedUser(t, "u1", "ana@cafe.test", "secreta123", entity.RoleAdmin, "active")

	out, err := f.uc.Me("u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@cafe.test", out.Email)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	_, err = f.uc.Me("fantasma")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
