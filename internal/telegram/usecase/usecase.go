package usecase

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/crypt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/telegram"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
	"go.opentelemetry.io/otel/trace"
)

const tokenPurpose = "telegram/bot_token"

type repoDB interface {
	ListBots(ctx context.Context, userID string) ([]entity.Bot, error)
	GetBot(ctx context.Context, id int64) (entity.Bot, error)
	CreateBot(ctx context.Context, in entity.CreateBot) (entity.Bot, error)
	DeleteBot(ctx context.Context, userID string, id int64) error
	SetChatID(ctx context.Context, id, chatID int64) error
	ListDeliverableBots(ctx context.Context, userID *string) ([]entity.Bot, error)
}

type Usecase struct {
	repoDB    repoDB
	bot       telegram.Bot
	crypt     crypt.Encryptor
	secret    uid.StringID
	cfg       config.Config
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Bot        telegram.Bot
	Crypt      crypt.Encryptor
	Secret     uid.StringID
	Config     config.Config
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		bot:       dep.Bot,
		crypt:     dep.Crypt,
		secret:    dep.Secret,
		cfg:       dep.Config,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("telegram.usecase").Start(ctx, name)
}

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID() == "" {
		return nil, goerror.Unauthenticated()
	}

	return clm, nil
}

func (s *Usecase) scope(userID string) crypt.Scope {
	return crypt.Scope{Owner: userID, Purpose: tokenPurpose}
}

func (s *Usecase) token(b entity.Bot) (string, error) {
	plain, err := s.crypt.Decrypt(b.TokenEnc, s.scope(b.UserID))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
