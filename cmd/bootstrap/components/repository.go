package components

import (
	"flashsale/internal/infra/redis"
	"flashsale/internal/infra/repository"
	"flashsale/internal/infra/uow"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"
	"flashsale/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewShopRepository,
			fx.As(new(queries.ShopReadStore)),
		),
		fx.Annotate(
			repository.NewVoucherRepository,
			fx.As(new(queries.VoucherReadStore)),
			fx.As(new(commands.VoucherReader)),
		),
		fx.Annotate(
			repository.NewOrderRepository,
			fx.As(new(queries.OrderReadStore)),
		),
		// Cache-side ports backed by the shared store
		fx.Annotate(
			redis.NewScriptGate,
			fx.As(new(commands.AdmissionGate)),
			fx.As(new(commands.CampaignPrimer)),
		),
		fx.Annotate(
			redis.NewIDWorker,
			fx.As(new(commands.IDGenerator)),
		),
		fx.Annotate(
			redis.NewAnalytics,
			fx.As(new(commands.AdmissionRecorder)),
			fx.As(new(queries.SalesReader)),
		),
		fx.Annotate(
			redis.NewStatusStore,
			fx.As(new(commands.StatusMarker)),
			fx.As(new(queries.StatusReader)),
			fx.As(new(worker.StatusMarker)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) repository.DBTX {
	return pool
}
