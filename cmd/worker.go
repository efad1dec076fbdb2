package cmd

import (
	"sync"

	"oracle/worker"
	"oracle/worker/storemanager"
	"oracle/worker/valuation"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "oracle job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		oracleStore := provideOracleStore(func() *db.DB { return database })
		oracleService := provideOracleService(ctx, oracleStore)
		snapshotStore := provideSnapshotStore(database)
		propertyStore := providePropertyStore(database)

		accounts := cfg.Worker.Accounts
		if cfg.Oracle.Account != "" {
			accounts = append([]string{cfg.Oracle.Account}, accounts...)
		}

		valuationWorker, err := valuation.New(cfg.Worker, accounts, oracleService, snapshotStore, propertyStore)
		if err != nil {
			log.WithError(err).Fatalln("create valuation worker")
		}

		storeManager, err := storemanager.New(cfg.Worker, snapshotStore)
		if err != nil {
			log.WithError(err).Fatalln("create store manager")
		}

		workers := []worker.Worker{
			valuationWorker,
			storeManager,
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				if err := worker.Run(ctx); err != nil {
					log.WithError(err).Errorln("worker stopped")
				}
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
