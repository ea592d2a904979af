package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	importpersistence "github.com/ventia/salesadmin/modules/imports/infrastructure/persistence"
	importservices "github.com/ventia/salesadmin/modules/imports/services"

	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
	salespersistence "github.com/ventia/salesadmin/modules/sales/infrastructure/persistence"
	"github.com/ventia/salesadmin/pkg/composables"
	"github.com/ventia/salesadmin/pkg/configuration"
	"github.com/ventia/salesadmin/pkg/eventbus"
)

// buildImportService assembles the pipeline exactly as the server would, so
// CLI imports and wizard imports go through the same code path.
func buildImportService() (*importservices.ImportService, error) {
	conf := configuration.Use()

	registry, err := template.NewFileRegistry(conf.TemplatesPath)
	if err != nil {
		return nil, err
	}

	groups := salespersistence.NewGroupRepository()
	salesPoints := salespersistence.NewSalesPointRepository()
	accounts := salespersistence.NewAccountRepository()
	matriculas := salespersistence.NewMatriculaRepository()
	contracts := salespersistence.NewContractRepository()

	bus := eventbus.NewEventPublisher(conf.Logger())
	audit := importservices.NewLogAuditRecorder()
	importservices.SubscribeAudit(bus, audit)

	return importservices.NewImportService(
		importpersistence.NewSessionRepository(),
		registry,
		importservices.NewValidator(groups, salesPoints, matriculas, contracts),
		importservices.NewPersonResolver(accounts),
		importservices.NewCommitter(contracts, accounts, matriculas),
		groups,
		salesPoints,
		bus,
		audit,
	), nil
}

func cliContext(ctx context.Context, pool *pgxpool.Pool, actorID uuid.UUID) context.Context {
	ctx = composables.WithPool(ctx, pool)
	if actorID != uuid.Nil {
		ctx = composables.WithActorID(ctx, actorID)
	}
	return composables.WithLogger(ctx, logrus.NewEntry(configuration.Use().Logger()))
}
