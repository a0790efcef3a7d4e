package marketplace

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/shopdesk/internal/marketplace/inbound"
	"github.com/shandysiswandi/shopdesk/internal/marketplace/outbound/db"
	"github.com/shandysiswandi/shopdesk/internal/marketplace/usecase"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/crypt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Gate       gate.Authorizer            `validate:"required"`
	Crypt      crypt.Encryptor            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Scheduler  *scheduler.Scheduler       `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Gate:       dep.Gate,
		Crypt:      dep.Crypt,
		State:      uid.NewToken(32),
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return inbound.RegisterCronJob(dep.Scheduler, dep.Config, uc)
}
