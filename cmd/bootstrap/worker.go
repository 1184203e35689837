package bootstrap

import (
	"context"

	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/shared"
	"flashsale/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewQueue,
		fx.Annotate(
			func(q *worker.Queue) *worker.Queue { return q },
			fx.As(new(commands.TaskQueue)),
		),
	),
	fx.Invoke(StartFulfillment),
)

func NewQueue(cfg config.Config) *worker.Queue {
	return worker.NewQueue(cfg.Seckill.QueueCapacity)
}

func StartFulfillment(
	lc fx.Lifecycle,
	queue *worker.Queue,
	uow shared.UnitOfWork,
	mutex redis.Mutex,
	status worker.StatusMarker,
	clk clock.Clock,
	cfg config.Config,
) {
	f := worker.NewFulfillment(queue, uow, mutex, status, clk, cfg)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			f.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return f.Stop(ctx)
		},
	})
}
