package components

import (
	"flashsale/internal/pkg/clock"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSeckillCommands,
		commands.NewVoucherAdminCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewShopQueries,
		queries.NewVoucherQueries,
		queries.NewOrderQueries,
	),
)
