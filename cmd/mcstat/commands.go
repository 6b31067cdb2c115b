package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nikovasil/mcreward/calc"
	"github.com/nikovasil/mcreward/chain"
	"github.com/nikovasil/mcreward/herman"
	"github.com/nikovasil/mcreward/mcio/gmc"
	"github.com/nikovasil/mcreward/mcio/prism"
	"github.com/nikovasil/mcreward/mcio/targetset"
)

// openFile opens path for reading, logging and wrapping any failure as
// a command error — this is the boundary that actually touches the
// filesystem.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to open file")

		return nil, fmt.Errorf("mcstat: open %q: %w", path, err)
	}

	return f, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

var readTraCmd = &cobra.Command{
	Use:   "read-tra",
	Short: "Read a PRISM .tra transitions file and print the resulting chain's size",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("tra")
		nEdgeDecos, _ := cmd.Flags().GetInt("edge-decorations")

		f, err := openFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		mc := chain.New(nEdgeDecos, 0)
		if err := prism.ReadTra(mc, f); err != nil {
			log.Error().Err(err).Msg("read-tra failed")

			return err
		}

		return printJSON(map[string]int{"states": mc.SizeStates(), "edges": mc.SizeEdges()})
	},
}

var readGMCCmd = &cobra.Command{
	Use:   "read-gmc",
	Short: "Read a GMC table file and print the resulting chain's size",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("gmc")
		nEdgeDecos, _ := cmd.Flags().GetInt("edge-decorations")

		f, err := openFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		mc := chain.New(nEdgeDecos, 0)
		if err := gmc.Read(mc, f); err != nil {
			log.Error().Err(err).Msg("read-gmc failed")

			return err
		}

		return printJSON(map[string]int{"states": mc.SizeStates(), "edges": mc.SizeEdges()})
	},
}

var addRewCmd = &cobra.Command{
	Use:   "add-rew",
	Short: "Read a PRISM .tra file then overlay a .trew rewards file onto it",
	RunE: func(cmd *cobra.Command, args []string) error {
		traPath, _ := cmd.Flags().GetString("tra")
		trewPath, _ := cmd.Flags().GetString("trew")
		slot, _ := cmd.Flags().GetInt("reward-slot")

		traFile, err := openFile(traPath)
		if err != nil {
			return err
		}
		defer traFile.Close()

		mc := chain.New(slot+1, 0)
		if err := prism.ReadTra(mc, traFile); err != nil {
			log.Error().Err(err).Msg("add-rew: reading transitions failed")

			return err
		}

		trewFile, err := openFile(trewPath)
		if err != nil {
			return err
		}
		defer trewFile.Close()

		if err := prism.ReadTrew(mc, trewFile, slot); err != nil {
			log.Error().Err(err).Msg("add-rew: reading rewards failed")

			return err
		}

		return printJSON(map[string]int{"states": mc.SizeStates(), "edges": mc.SizeEdges()})
	},
}

var readTargetCmd = &cobra.Command{
	Use:   "read-target",
	Short: "Read a whitespace-separated integer-list target-set file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("target")

		f, err := openFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := targetset.FromIntStream(f)
		if err != nil {
			log.Error().Err(err).Msg("read-target failed")

			return err
		}

		return printJSON(map[string]any{"size": s.Len(), "members": s.Members()})
	},
}

var readLabelCmd = &cobra.Command{
	Use:   "read-label",
	Short: "Read a PRISM label file, selecting states tagged with a given label id",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("label")
		labelID, _ := cmd.Flags().GetInt("label-id")

		f, err := openFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := prism.ReadLabels(f, labelID)
		if err != nil {
			log.Error().Err(err).Msg("read-label failed")

			return err
		}

		return printJSON(map[string]any{"size": s.Len(), "members": s.Members()})
	},
}

// buildChainAndTarget assembles a chain from a .tra file, an optional
// .trew overlay, and a target set from a plain integer-list file — the
// common setup shared by calc-expect and calc-variance (calc-covariance
// reads its .tra and target files itself and reads no .trew file).
func buildChainAndTarget(cmd *cobra.Command, nEdgeDecos, nNodeDecos int) (*chain.Chain, *targetset.Set, error) {
	traPath, _ := cmd.Flags().GetString("tra")
	trewPath, _ := cmd.Flags().GetString("trew")
	rewardSlot, _ := cmd.Flags().GetInt("reward-slot")
	targetPath, _ := cmd.Flags().GetString("target")

	traFile, err := openFile(traPath)
	if err != nil {
		return nil, nil, err
	}
	defer traFile.Close()

	mc := chain.New(nEdgeDecos, nNodeDecos)
	if err := prism.ReadTra(mc, traFile); err != nil {
		return nil, nil, fmt.Errorf("mcstat: %w", err)
	}

	if trewPath != "" {
		trewFile, err := openFile(trewPath)
		if err != nil {
			return nil, nil, err
		}
		defer trewFile.Close()

		if err := prism.ReadTrew(mc, trewFile, rewardSlot); err != nil {
			return nil, nil, fmt.Errorf("mcstat: %w", err)
		}
	}

	targetFile, err := openFile(targetPath)
	if err != nil {
		return nil, nil, err
	}
	defer targetFile.Close()

	target, err := targetset.FromIntStream(targetFile)
	if err != nil {
		return nil, nil, fmt.Errorf("mcstat: %w", err)
	}

	return mc, target, nil
}

var calcExpectCmd = &cobra.Command{
	Use:   "calc-expect",
	Short: "Compute expectation of accumulated reward until absorption into a target set",
	RunE: func(cmd *cobra.Command, args []string) error {
		rewardSlot, _ := cmd.Flags().GetInt("reward-slot")
		expectSlot, _ := cmd.Flags().GetInt("expect-slot")

		mc, target, err := buildChainAndTarget(cmd, rewardSlot+1, expectSlot+1)
		if err != nil {
			return err
		}

		runLog, err := calc.Expectation(mc, rewardSlot, target, expectSlot)
		if err != nil {
			log.Error().Err(err).Msg("calc-expect failed")

			return err
		}

		return printJSON(runLog)
	},
}

var calcVarianceCmd = &cobra.Command{
	Use:   "calc-variance",
	Short: "Compute variance of accumulated reward until absorption into a target set",
	RunE: func(cmd *cobra.Command, args []string) error {
		rewardSlot, _ := cmd.Flags().GetInt("reward-slot")
		varianceSlot, _ := cmd.Flags().GetInt("variance-slot")
		expectSlot, _ := cmd.Flags().GetInt("expect-slot")
		freeRewardSlot, _ := cmd.Flags().GetInt("free-reward-slot")

		nEdgeDecos := maxInt(rewardSlot, freeRewardSlot) + 1
		nNodeDecos := maxInt(varianceSlot, expectSlot) + 1

		mc, target, err := buildChainAndTarget(cmd, nEdgeDecos, nNodeDecos)
		if err != nil {
			return err
		}

		runLog, err := calc.Variance(mc, rewardSlot, target, varianceSlot, expectSlot, freeRewardSlot)
		if err != nil {
			log.Error().Err(err).Msg("calc-variance failed")

			return err
		}

		return printJSON(runLog)
	},
}

var calcCovarianceCmd = &cobra.Command{
	Use:   "calc-covariance",
	Short: "Compute covariance of two accumulated rewards until absorption into a target set",
	RunE: func(cmd *cobra.Command, args []string) error {
		r1, _ := cmd.Flags().GetInt("reward-slot-1")
		r2, _ := cmd.Flags().GetInt("reward-slot-2")
		covSlot, _ := cmd.Flags().GetInt("covariance-slot")
		e1, _ := cmd.Flags().GetInt("expect-slot-1")
		e2, _ := cmd.Flags().GetInt("expect-slot-2")
		freeRewardSlot, _ := cmd.Flags().GetInt("free-reward-slot")
		traPath, _ := cmd.Flags().GetString("tra")
		targetPath, _ := cmd.Flags().GetString("target")

		traFile, err := openFile(traPath)
		if err != nil {
			return err
		}
		defer traFile.Close()

		nEdgeDecos := maxInt(maxInt(r1, r2), freeRewardSlot) + 1
		nNodeDecos := maxInt(maxInt(e1, e2), covSlot) + 1
		mc := chain.New(nEdgeDecos, nNodeDecos)
		if err := prism.ReadTra(mc, traFile); err != nil {
			return fmt.Errorf("mcstat: %w", err)
		}

		targetFile, err := openFile(targetPath)
		if err != nil {
			return err
		}
		defer targetFile.Close()

		target, err := targetset.FromIntStream(targetFile)
		if err != nil {
			return fmt.Errorf("mcstat: %w", err)
		}

		runLog, err := calc.Covariance(mc, r1, r2, target, covSlot, e1, e2, freeRewardSlot)
		if err != nil {
			log.Error().Err(err).Msg("calc-covariance failed")

			return err
		}

		return printJSON(runLog)
	},
}

var generateHermanCmd = &cobra.Command{
	Use:   "generate-herman",
	Short: "Generate the Herman self-stabilisation ring chain of a given odd size",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")

		mc := chain.New(1, 0)
		target := targetset.New()
		runLog, err := herman.Generate(mc, size, target)
		if err != nil {
			log.Error().Err(err).Msg("generate-herman failed")

			return err
		}

		return printJSON(map[string]any{"log": runLog, "target_size": target.Len()})
	},
}

var printMCCmd = &cobra.Command{
	Use:   "print-mc",
	Short: "Read a PRISM .tra file and print its state/edge summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("tra")

		f, err := openFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		mc := chain.New(1, 0)
		if err := prism.ReadTra(mc, f); err != nil {
			log.Error().Err(err).Msg("print-mc failed")

			return err
		}

		return printJSON(map[string]int{"states": mc.SizeStates(), "edges": mc.SizeEdges()})
	},
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func init() {
	readTraCmd.Flags().String("tra", "", "path to PRISM .tra file")
	readTraCmd.Flags().Int("edge-decorations", 1, "number of edge-decoration slots to allocate")
	_ = readTraCmd.MarkFlagRequired("tra")

	readGMCCmd.Flags().String("gmc", "", "path to GMC table file")
	readGMCCmd.Flags().Int("edge-decorations", 1, "number of edge-decoration slots to allocate")
	_ = readGMCCmd.MarkFlagRequired("gmc")

	addRewCmd.Flags().String("tra", "", "path to PRISM .tra file")
	addRewCmd.Flags().String("trew", "", "path to PRISM .trew file")
	addRewCmd.Flags().Int("reward-slot", 0, "edge-decoration slot the rewards are written to")
	_ = addRewCmd.MarkFlagRequired("tra")
	_ = addRewCmd.MarkFlagRequired("trew")

	readTargetCmd.Flags().String("target", "", "path to integer-list target-set file")
	_ = readTargetCmd.MarkFlagRequired("target")

	readLabelCmd.Flags().String("label", "", "path to PRISM label file")
	readLabelCmd.Flags().Int("label-id", 0, "label id selecting target states")
	_ = readLabelCmd.MarkFlagRequired("label")

	for _, c := range []*cobra.Command{calcExpectCmd, calcVarianceCmd} {
		c.Flags().String("tra", "", "path to PRISM .tra file")
		c.Flags().String("trew", "", "optional path to PRISM .trew rewards file")
		c.Flags().String("target", "", "path to integer-list target-set file")
		c.Flags().Int("reward-slot", 0, "edge-decoration slot holding the reward")
		_ = c.MarkFlagRequired("tra")
		_ = c.MarkFlagRequired("target")
	}
	calcExpectCmd.Flags().Int("expect-slot", 0, "state-decoration slot the expectation is written to")
	calcVarianceCmd.Flags().Int("variance-slot", 0, "state-decoration slot the variance is written to")
	calcVarianceCmd.Flags().Int("expect-slot", 1, "state-decoration slot for the intermediate expectation")
	calcVarianceCmd.Flags().Int("free-reward-slot", 1, "edge-decoration slot for the composed variance reward")

	calcCovarianceCmd.Flags().String("tra", "", "path to PRISM .tra file")
	calcCovarianceCmd.Flags().String("target", "", "path to integer-list target-set file")
	calcCovarianceCmd.Flags().Int("reward-slot-1", 0, "edge-decoration slot holding reward 1")
	calcCovarianceCmd.Flags().Int("reward-slot-2", 1, "edge-decoration slot holding reward 2")
	calcCovarianceCmd.Flags().Int("covariance-slot", 0, "state-decoration slot the covariance is written to")
	calcCovarianceCmd.Flags().Int("expect-slot-1", 1, "state-decoration slot for reward 1's expectation")
	calcCovarianceCmd.Flags().Int("expect-slot-2", 2, "state-decoration slot for reward 2's expectation")
	calcCovarianceCmd.Flags().Int("free-reward-slot", 2, "edge-decoration slot for the composed covariance reward")
	_ = calcCovarianceCmd.MarkFlagRequired("tra")
	_ = calcCovarianceCmd.MarkFlagRequired("target")

	generateHermanCmd.Flags().Int("size", 3, "odd ring size N")

	printMCCmd.Flags().String("tra", "", "path to PRISM .tra file")
	_ = printMCCmd.MarkFlagRequired("tra")
}
