package account

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/keylock"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/mailer"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)

type Config struct {
	ResetTTL        time.Duration
	ResetTemplateID string
	FrontendBaseURL string
}

type Service struct {
	repo     *Repo
	users    *user.Repo
	profiles *profile.Repo
	identity *identity.Store
	idp      user.IdentityProvider
	tokens   *Tokens
	mail     mailer.Mailer
	cfg      Config
	locks    *keylock.Map
	now      func() time.Time
}

func NewService(repo *Repo, users *user.Repo, profiles *profile.Repo, store *identity.Store, idp user.IdentityProvider, tokens *Tokens, mail mailer.Mailer, cfg Config) *Service {
	if idp == nil {
		idp = user.NopIdentity{}
	}
	if mail == nil {
		mail = mailer.Log{}
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Service{
		repo:     repo,
		users:    users,
		profiles: profiles,
		identity: store,
		idp:      idp,
		tokens:   tokens,
		mail:     mail,
		cfg:      cfg,
		locks:    keylock.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ---- Sign Up ----

// SignUp creates the credential, the user and its role profile, then opens a
// session. Email and guardian cpf are unique.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	cpf := utils.OnlyDigits(in.CPF)
	if in.Role == user.RoleResponsavel && cpf == "" {
		return nil, fmt.Errorf("%w: CPF is required", ErrBadRequest)
	}

	unlock := s.locks.Lock("email|" + in.Email)
	defer unlock()
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !user.IsErrNotFound(err) {
		return nil, err
	}
	if in.Role == user.RoleResponsavel {
		unlockCPF := s.locks.Lock("cpf|" + cpf)
		defer unlockCPF()
		taken, err := s.guardianWithCPF(ctx, cpf)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, fmt.Errorf("%w: cpf already registered", ErrConflict)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	uid := uuid.NewString()
	if err := s.repo.SetCredential(ctx, Credential{UserID: uid, PasswordHash: string(hash), UpdatedAt: now}); err != nil {
		return nil, err
	}
	u := user.User{UserID: uid, Email: in.Email, Nome: in.Nome, Role: in.Role, CreatedAt: now, UpdatedAt: now}
	if err := s.users.Create(ctx, u); err != nil {
		_ = s.repo.DeleteCredential(ctx, uid)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.createRoleProfile(ctx, uid, cpf, in); err != nil {
		// The loader tolerates a missing role document.
		log.Printf("[account] create %s profile for %s: %v", in.Role, uid, err)
	}

	if err := s.idp.CreateUser(ctx, uid, in.Email, in.Password, in.Nome); err != nil {
		log.Printf("[account] identity provider create %s: %v", uid, err)
	}

	return s.openSession(ctx, u)
}

func (s *Service) createRoleProfile(ctx context.Context, uid, cpf string, in SignUpInput) error {
	switch in.Role {
	case user.RoleProfissional:
		return s.profiles.CreateProfessional(ctx, profile.Professional{
			UserID:      uid,
			Nome:        in.Nome,
			CPF:         cpf,
			Whats:       in.Whatsapp,
			Profissao:   in.Profissao,
			Modalidade:  in.Modalidade,
			FaixaEtaria: in.FaixaEtaria,
		})
	case user.RoleAtleta:
		a := profile.Athlete{
			UserID:    uid,
			Nome:      in.Nome,
			CPF:       cpf,
			Whatsapp:  in.Whatsapp,
			BirthDate: in.BirthDate,
			Posicao:   in.Posicao,
		}
		if gcpf := utils.OnlyDigits(in.ResponsavelCPF); gcpf != "" {
			a.NomeResponsavel = gcpf
			g, err := s.guardianWithCPF(ctx, gcpf)
			if err != nil {
				return err
			}
			if g != nil {
				a.ResponsavelID = g.UserID
			}
		}
		return s.profiles.CreateAthlete(ctx, a)
	case user.RoleResponsavel:
		return s.profiles.CreateGuardian(ctx, profile.Guardian{
			UserID:     uid,
			Nome:       in.Nome,
			CPF:        cpf,
			Whatsapp:   in.Whatsapp,
			BirthDate:  in.BirthDate,
			Parentesco: in.Parentesco,
		})
	}
	return nil
}

// guardianWithCPF compares digits only, so older records stored with
// punctuation still match.
func (s *Service) guardianWithCPF(ctx context.Context, cpf string) (*profile.Guardian, error) {
	guardians, err := s.profiles.Guardians(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range guardians {
		if utils.OnlyDigits(g.CPF) == cpf {
			return &g, nil
		}
	}
	return nil, nil
}

// ---- Login ----

func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if user.IsErrNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	cred, err := s.repo.Credential(ctx, u.UserID)
	if err != nil {
		if IsErrUnauthorized(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if u.Archived() {
		return nil, fmt.Errorf("%w: account archived", ErrUnauthorized)
	}
	return s.openSession(ctx, *u)
}

func (s *Service) openSession(ctx context.Context, u user.User) (*AuthResult, error) {
	now := s.now()
	sess := Session{ID: uuid.NewString(), UserID: u.UserID, CreatedAt: now, ExpiresAt: now.Add(s.tokens.TTL())}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	token, exp, err := s.tokens.Issue(u.UserID, sess.ID, now)
	if err != nil {
		return nil, err
	}

	res := &AuthResult{Token: token, ExpiresAt: exp}
	if ft, err := s.idp.CustomToken(ctx, u.UserID); err != nil {
		log.Printf("[account] custom token %s: %v", u.UserID, err)
	} else {
		res.FirebaseToken = ft
	}

	p, err := s.identity.Load(ctx, u.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	res.Profile = p
	return res, nil
}

// ---- Current ----

// Current resolves a bearer token to the signed-in profile. Any failure is
// reported as ErrUnauthorized so callers treat it as "not logged in".
func (s *Service) Current(ctx context.Context, token string) (*identity.MergedProfile, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	sess, err := s.repo.Session(ctx, claims.SessionID)
	if err != nil {
		if IsErrUnauthorized(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if sess.UserID != claims.UserID || !s.now().Before(sess.ExpiresAt) {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}

	var p *identity.MergedProfile
	if cached, ok := s.identity.Get(claims.UserID); ok {
		p = &cached
	} else if p, err = s.identity.Load(ctx, claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if p.User.Archived() {
		return nil, fmt.Errorf("%w: account archived", ErrUnauthorized)
	}
	return p, nil
}

// ---- Logout ----

// Logout deletes the session behind token. An unusable token is already
// logged out.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.identity.Clear(claims.UserID)
	return nil
}

// ---- Password Reset ----

// RequestPasswordReset emails a one-time link. Unknown emails succeed
// silently.
func (s *Service) RequestPasswordReset(ctx context.Context, in ForgotPasswordInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if user.IsErrNotFound(err) {
			return nil
		}
		return err
	}
	if u.Archived() {
		return nil
	}

	token := uuid.NewString()
	now := s.now()
	if err := s.repo.CreateReset(ctx, token, PasswordReset{UserID: u.UserID, CreatedAt: now, ExpiresAt: now.Add(s.cfg.ResetTTL)}); err != nil {
		return err
	}

	link := strings.TrimRight(s.cfg.FrontendBaseURL, "/") + "/redefinir-senha?token=" + token
	data := map[string]any{
		"nome":     u.Nome,
		"link":     link,
		"expiraEm": int(s.cfg.ResetTTL.Minutes()),
	}
	err = s.mail.Send(ctx, mailer.Message{
		To:         u.Email,
		ToName:     u.Nome,
		TemplateID: s.cfg.ResetTemplateID,
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes the token, replaces the password and revokes every
// open session of the account.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	unlock := s.locks.Lock("reset|" + hashToken(in.Token))
	defer unlock()
	reset, err := s.repo.Reset(ctx, in.Token)
	if err != nil {
		return err
	}
	if reset.Used || !s.now().Before(reset.ExpiresAt) {
		return fmt.Errorf("%w: invalid or expired token", ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.SetCredential(ctx, Credential{UserID: reset.UserID, PasswordHash: string(hash), UpdatedAt: s.now()}); err != nil {
		return err
	}
	if err := s.repo.MarkResetUsed(ctx, reset.ID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if err := s.repo.DeleteSessionsFor(ctx, reset.UserID); err != nil {
		log.Printf("[account] revoke sessions %s: %v", reset.UserID, err)
	}
	s.identity.Clear(reset.UserID)
	return nil
}
