package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/pkg/jwt"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro con aprovisionamiento, login e identidad actual.
type AuthUseCase struct {
	accounts       repository.AccountRepository
	roles          repository.RoleAssignmentRepository
	tx             SignUpTxRunner
	policy         *policy.Engine
	jwtCfg         JWTConfig
	bootstrapEmail string
	log            *logger.Logger
	now            func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. bootstrapEmail vacío desactiva el superadmin bootstrap.
func NewAuthUseCase(
	accounts repository.AccountRepository,
	roles repository.RoleAssignmentRepository,
	tx SignUpTxRunner,
	engine *policy.Engine,
	jwtCfg JWTConfig,
	bootstrapEmail string,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		accounts:       accounts,
		roles:          roles,
		tx:             tx,
		policy:         engine,
		jwtCfg:         jwtCfg,
		bootstrapEmail: strings.TrimSpace(bootstrapEmail),
		log:            log,
		now:            time.Now,
	}
}

// NormalizeEmail recorta espacios y pasa a minúsculas el email almacenado.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isBootstrap compara sin distinguir mayúsculas (case folding Unicode).
func (uc *AuthUseCase) isBootstrap(email string) bool {
	if uc.bootstrapEmail == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(email)) == fold.String(uc.bootstrapEmail)
}

// SignUp crea Account + RoleAssignment + perfil (+ SupplierBusiness para proveedores) en una sola
// transacción y devuelve un token para la nueva identidad.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.SessionResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, domain.Invalid("email es requerido")
	}
	if len(in.Password) < 8 {
		return nil, domain.Invalid("password debe tener al menos 8 caracteres")
	}

	bootstrap := uc.isBootstrap(email)
	role, status, err := entity.InitialAssignment(entity.Role(in.Role), bootstrap)
	if err != nil {
		return nil, domain.Invalid("%s", err.Error())
	}
	if err := validateProfileFields(role, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now().UTC()
	account := &entity.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	caller := entity.Identity{AccountID: account.ID, Email: account.Email}
	assignment := &entity.RoleAssignment{
		ID:             uuid.New().String(),
		AccountID:      account.ID,
		Role:           role,
		ApprovalStatus: status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Las políticas se evalúan antes de abrir la transacción: el motor puede consultar roles.
	for _, table := range signUpTables(role) {
		if err := uc.policy.Authorize(ctx, caller, policy.OpInsert, policy.Resource{Table: table, OwnerID: account.ID}); err != nil {
			return nil, err
		}
	}

	err = uc.tx.RunSignUp(ctx, func(
		accounts repository.AccountRepository,
		roles repository.RoleAssignmentRepository,
		profiles repository.ProfileRepository,
		businesses repository.BusinessRepository,
	) error {
		existing, err := accounts.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := accounts.Create(ctx, account); err != nil {
			return err
		}

		if err := roles.Create(ctx, assignment); err != nil {
			return err
		}

		switch role {
		case entity.RoleSupplier:
			p := &entity.SupplierProfile{
				ID:              uuid.New().String(),
				AccountID:       account.ID,
				BusinessName:    strings.TrimSpace(in.BusinessName),
				ContactPerson:   strings.TrimSpace(in.ContactPerson),
				ContactNumber:   strings.TrimSpace(in.ContactNumber),
				BusinessAddress: strings.TrimSpace(in.BusinessAddress),
				Description:     strings.TrimSpace(in.Description),
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := profiles.CreateSupplier(ctx, p); err != nil {
				return err
			}
			_, _, err := businesses.InsertIfAbsent(ctx, entity.BusinessFromProfile(uuid.New().String(), p, now))
			return err
		case entity.RoleVendor:
			p := &entity.VendorProfile{
				ID:            uuid.New().String(),
				AccountID:     account.ID,
				StoreName:     strings.TrimSpace(in.StoreName),
				ContactPerson: strings.TrimSpace(in.ContactPerson),
				ContactNumber: strings.TrimSpace(in.ContactNumber),
				StoreAddress:  strings.TrimSpace(in.StoreAddress),
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			return profiles.CreateVendor(ctx, p)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmailAlreadyExists, err)
		}
		return nil, err
	}

	uc.log.Info().
		Str("account_id", account.ID).
		Str("role", string(role)).
		Str("approval_status", string(status)).
		Bool("bootstrap", bootstrap).
		Msg("cuenta registrada")

	return uc.session(account, assignment)
}

// signUpTables tablas en las que el registro inserta filas según el rol.
func signUpTables(role entity.Role) []policy.Table {
	switch role {
	case entity.RoleSupplier:
		return []policy.Table{policy.TableRoleAssignment, policy.TableSupplierProfile, policy.TableBusiness}
	case entity.RoleVendor:
		return []policy.Table{policy.TableRoleAssignment, policy.TableVendorProfile}
	default:
		return []policy.Table{policy.TableRoleAssignment}
	}
}

func validateProfileFields(role entity.Role, in dto.SignUpRequest) error {
	switch role {
	case entity.RoleSupplier:
		if strings.TrimSpace(in.BusinessName) == "" {
			return domain.Invalid("business_name es requerido para proveedores")
		}
	case entity.RoleVendor:
		if strings.TrimSpace(in.StoreName) == "" {
			return domain.Invalid("store_name es requerido para vendedores")
		}
	}
	return nil
}

// Login verifica email/password y emite un token. Email desconocido y password incorrecto
// producen el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error) {
	account, err := uc.accounts.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	ra, err := uc.roles.GetByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		// Cuenta sin rol: no debería existir tras un registro transaccional.
		return nil, fmt.Errorf("%w: cuenta sin asignación de rol", domain.ErrConflict)
	}
	return uc.session(account, ra)
}

// Me devuelve la identidad autenticada y su asignación de rol actual.
func (uc *AuthUseCase) Me(ctx context.Context, caller entity.Identity) (*dto.MeResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	account, err := uc.accounts.GetByID(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableRoleAssignment, OwnerID: account.ID}); err != nil {
		return nil, err
	}
	ra, err := uc.roles.GetByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		Identity: dto.IdentityResponse{AccountID: account.ID, Email: account.Email},
		Role:     ToRoleAssignmentResponse(ra),
	}, nil
}

func (uc *AuthUseCase) session(account *entity.Account, ra *entity.RoleAssignment) (*dto.SessionResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, account.ID, account.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		Token:    token,
		Identity: dto.IdentityResponse{AccountID: account.ID, Email: account.Email},
		Role:     *ToRoleAssignmentResponse(ra),
	}, nil
}

// ToRoleAssignmentResponse mapea la entidad al DTO. nil → nil.
func ToRoleAssignmentResponse(ra *entity.RoleAssignment) *dto.RoleAssignmentResponse {
	if ra == nil {
		return nil
	}
	return &dto.RoleAssignmentResponse{
		AccountID:      ra.AccountID,
		Role:           string(ra.Role),
		ApprovalStatus: string(ra.ApprovalStatus),
		ReviewedBy:     ra.ReviewedBy,
		ReviewedAt:     ra.ReviewedAt,
		CreatedAt:      ra.CreatedAt,
		UpdatedAt:      ra.UpdatedAt,
	}
}
