package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
	"github.com/cafeto/storefront-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret      string
	ExpMinutes  int
	RefreshDays int
	Issuer      string
}

// AuthUseCase casos de uso de sesión: registro con OTP, login, refresh y logout.
type AuthUseCase struct {
	userRepo repository.UserRepository
	otpStore OTPStore
	refresh  RefreshStore
	sender   OTPSender
	jwtCfg   JWTConfig
	otpTTL   time.Duration
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, otpStore OTPStore, refresh RefreshStore, sender OTPSender, jwtCfg JWTConfig, otpTTL time.Duration) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		otpStore: otpStore,
		refresh:  refresh,
		sender:   sender,
		jwtCfg:   jwtCfg,
		otpTTL:   otpTTL,
	}
}

// Register inicia el registro: hashea la contraseña, genera un código de 4 dígitos
// y lo deja en el store con TTL. El usuario solo se crea al verificar el código.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) error {
	existing, _ := uc.userRepo.GetByEmail(in.Email)
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := generateOTP()
	if err != nil {
		return err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	reg := PendingRegistration{Email: in.Email, PasswordHash: string(hash), Name: name}
	if err := uc.otpStore.SavePending(in.Email, code, reg, uc.otpTTL); err != nil {
		return err
	}
	return uc.sender.Send(in.Email, code)
}

// VerifyOTP confirma el código y crea el usuario con rol customer.
// El código debe ser exactamente 4 dígitos numéricos; cualquier otra forma se
// rechaza antes de tocar el store (equivalente al bloqueo client-side del OTP incompleto).
func (uc *AuthUseCase) VerifyOTP(in dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	if !validOTPFormat(in.OTP) {
		return nil, domain.ErrInvalidInput
	}
	code, reg, err := uc.otpStore.GetPending(in.Email)
	if err != nil {
		return nil, err
	}
	if reg == nil || code != in.OTP {
		return nil, domain.ErrInvalidOTP
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        reg.Email,
		PasswordHash: reg.PasswordHash,
		Name:         reg.Name,
		Role:         entity.RoleCustomer,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	_ = uc.otpStore.DeletePending(in.Email)
	return uc.issueSession(user)
}

// Login verifica email/password y emite el par de tokens.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	return uc.issueSession(user)
}

// Refresh rota la sesión: valida el refresh token, revoca el anterior y emite un par nuevo.
func (uc *AuthUseCase) Refresh(in dto.RefreshRequest) (*dto.LoginResponse, error) {
	userID, err := uc.refresh.UserID(in.RefreshToken)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, domain.ErrInvalidRefresh
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != "active" {
		return nil, domain.ErrInvalidRefresh
	}
	if err := uc.refresh.Revoke(in.RefreshToken); err != nil {
		return nil, err
	}
	return uc.issueSession(user)
}

// Logout revoca el refresh token (los tokens persistidos se limpian al salir).
func (uc *AuthUseCase) Logout(in dto.LogoutRequest) error {
	return uc.refresh.Revoke(in.RefreshToken)
}

// Me devuelve la identidad del usuario autenticado (topbar/sidebar).
func (uc *AuthUseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) issueSession(user *entity.User) (*dto.LoginResponse, error) {
	access, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refreshToken := uuid.New().String()
	ttl := time.Duration(uc.jwtCfg.RefreshDays) * 24 * time.Hour
	if err := uc.refresh.Save(refreshToken, user.ID, ttl); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Tokens: dto.TokenPair{AccessToken: access, RefreshToken: refreshToken},
		User:   *ToUserResponse(user),
	}, nil
}

// generateOTP devuelve un código aleatorio de exactamente 4 dígitos (con ceros a la izquierda).
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// validOTPFormat exige exactamente 4 dígitos numéricos.
func validOTPFormat(otp string) bool {
	if len(otp) != 4 {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ToUserResponse mapea la entidad a su DTO de salida (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
