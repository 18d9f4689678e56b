package main

import (
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/service"

	"github.com/spf13/cobra"
)

var (
	recallExecute bool
	recallReason  string
)

var forwardCmd = &cobra.Command{
	Use:   "forward <ingredientLotId>",
	Short: "Print every run and pallet an ingredient lot reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := rt.traceService()
		if err != nil {
			return err
		}
		res, err := svc.ForwardTrace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var backwardCmd = &cobra.Command{
	Use:   "backward <palletId>",
	Short: "Print the ingredient lots and suppliers behind a pallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := rt.traceService()
		if err != nil {
			return err
		}
		res, err := svc.BackwardTrace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var recallCmd = &cobra.Command{
	Use:   "recall <ingredientLotId>",
	Short: "Assess (or with --execute, carry out) a recall of an ingredient lot",
	Long: `Assess the recall impact of an ingredient lot and print the risk score,
urgency buckets and action plan.

With --execute the lot is quarantined and every production run and pallet made
from it is marked RECALLED in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if recallExecute {
			db, err := rt.connect()
			if err != nil {
				return err
			}
			svc := service.NewRecallService(db,
				repository.NewLotRepo(db),
				repository.NewProductionRepo(db),
				repository.NewPalletRepo(db),
				repository.NewRecallRepo(db),
				rt.cfg.Trace, nil, rt.log)
			res, err := svc.Execute(cmd.Context(), args[0], &service.ExecuteRecallRequest{Reason: recallReason}, cliActor)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}

		svc, err := rt.traceService()
		if err != nil {
			return err
		}
		res, err := svc.AssessRecall(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	recallCmd.Flags().BoolVar(&recallExecute, "execute", false, "execute the recall instead of only assessing it")
	recallCmd.Flags().StringVar(&recallReason, "reason", "", "reason recorded on the recall event (required with --execute)")
	recallCmd.MarkFlagsRequiredTogether("execute", "reason")
}

func (e *env) traceService() (service.TraceService, error) {
	db, err := e.connect()
	if err != nil {
		return nil, err
	}
	return service.NewTraceService(repository.NewTraceRepo(db), e.cfg.Trace, e.log), nil
}
