// Command mssc-solve loads a Cardinality-Constrained MSSC instance from
// a YAML file and runs the exact solver (internal/mssc) to optimality,
// printing the optimal assignment and its WCSS.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/clusterkit/cardmssc/internal/mssc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// instanceFile mirrors spec.md §6's instance data layout one-to-one,
// decoded from YAML rather than the hand-rolled parsing the kernel
// itself is out of scope for.
type instanceFile struct {
	N           int         `yaml:"n"`
	K           int         `yaml:"k"`
	S           int         `yaml:"s"`
	D           [][]float64 `yaml:"d"`
	Coords      [][]float64 `yaml:"coords,omitempty"`
	Target      []int       `yaml:"target,omitempty"`
	Memberships []int       `yaml:"memberships,omitempty"`
}

func main() {
	var (
		instancePath    string
		initialSolution string
		tieHandling     string
		constraintFlag  string
		timeout         time.Duration
	)

	logger := logrus.New()

	root := &cobra.Command{
		Use:   "mssc-solve",
		Short: "Solve a cardinality-constrained minimum sum-of-squares clustering instance exactly",
	}

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Load an instance file and run the exact solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(instancePath)
			if err != nil {
				return fmt.Errorf("reading instance file: %w", err)
			}
			var f instanceFile
			if err := yaml.Unmarshal(raw, &f); err != nil {
				return fmt.Errorf("parsing instance file: %w", err)
			}

			inst := &mssc.Instance{
				N: f.N, K: f.K, S: f.S,
				D:                 f.D,
				Coords:            f.Coords,
				Target:            f.Target,
				InitialMembership: f.Memberships,
			}

			initMode, err := parseInitialSolution(initialSolution)
			if err != nil {
				return err
			}
			tieMode, err := parseTieHandling(tieHandling)
			if err != nil {
				return err
			}
			cset, err := parseConstraintSet(constraintFlag)
			if err != nil {
				return err
			}

			opts := mssc.SolveOptions{
				Constraints: cset,
				Search: mssc.SearchConfig{
					InitialSolution: initMode,
					MainSearch:      mssc.MainMaxMinVar,
					TieHandling:     tieMode,
				},
				Timeout: timeout,
				Logger:  logger,
			}

			result, err := mssc.Solve(inst, opts)
			if err != nil {
				return fmt.Errorf("solve: %w", err)
			}

			logger.WithFields(logrus.Fields{
				"objective":  result.Objective,
				"nodes":      result.Monitor.NodesExplored,
				"backtracks": result.Monitor.Backtracks,
			}).Info("solve complete")
			fmt.Printf("objective: %v\nassignment: %v\n", result.Objective, result.Assignment)
			return nil
		},
	}

	solveCmd.Flags().StringVar(&instancePath, "instance", "", "path to a YAML instance file (required)")
	solveCmd.Flags().StringVar(&initialSolution, "initial-solution", "none", "none|greedy|memberships")
	// No --main-search flag: mssc.MainSearchMode has exactly one value
	// (MainMaxMinVar) today. Add the flag back once a second mode exists.
	solveCmd.Flags().StringVar(&tieHandling, "tie-handling", "none", "none|unbound-farthest-total-ss|fixed-farthest-dist|fixed-max-min|farthest-point-from-biggest-center|max-min-point-from-all-centers")
	solveCmd.Flags().StringVar(&constraintFlag, "constraint", "wflow", "wgen|wcard|wflow")
	solveCmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock search timeout (0 = none)")
	_ = solveCmd.MarkFlagRequired("instance")

	root.AddCommand(solveCmd)

	if err := root.Execute(); err != nil {
		logger.WithError(err).Error("mssc-solve failed")
		os.Exit(1)
	}
}

func parseInitialSolution(s string) (mssc.InitialSolutionMode, error) {
	switch s {
	case "none", "":
		return mssc.InitialNone, nil
	case "greedy":
		return mssc.InitialGreedyInit, nil
	case "memberships":
		return mssc.InitialMembershipsAsIndicated, nil
	default:
		return 0, fmt.Errorf("unknown --initial-solution %q", s)
	}
}

func parseTieHandling(s string) (mssc.TieHandlingMode, error) {
	switch s {
	case "none", "":
		return mssc.TieNone, nil
	case "unbound-farthest-total-ss":
		return mssc.TieUnboundFarthestTotalSS, nil
	case "fixed-farthest-dist":
		return mssc.TieFixedFarthestDist, nil
	case "fixed-max-min":
		return mssc.TieFixedMaxMin, nil
	case "farthest-point-from-biggest-center":
		return mssc.TieFarthestPointFromBiggestCenter, nil
	case "max-min-point-from-all-centers":
		return mssc.TieMaxMinPointFromAllCenters, nil
	default:
		return 0, fmt.Errorf("unknown --tie-handling %q", s)
	}
}

func parseConstraintSet(s string) (mssc.ConstraintSet, error) {
	switch s {
	case "wgen":
		return mssc.ConstraintWGen, nil
	case "wcard":
		return mssc.ConstraintWCard, nil
	case "wflow", "":
		return mssc.ConstraintWFlow, nil
	default:
		return 0, fmt.Errorf("unknown --constraint %q", s)
	}
}
