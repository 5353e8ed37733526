package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/service"
)

func newGoalsCmd() *cobra.Command {
	goals := &cobra.Command{
		Use:   "goals",
		Short: "Show the daily nutrition goals",
		Args:  cobra.NoArgs,
		RunE:  runGoals,
	}

	var target models.Goals
	set := &cobra.Command{
		Use:   "set",
		Short: "Change daily goals; omitted metrics keep their value and 0 clears a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGoalsSet(cmd, target)
		},
	}
	bindGoalFlags(set.Flags(), &target)

	var profile models.Profile
	var apply bool
	recommend := &cobra.Command{
		Use:   "recommend",
		Short: "Ask for goals that suit your profile",
		Long: `recommend saves the profile, with any flags applied, and asks the inference
service for matching goals. The goals are only stored with --apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGoalsRecommend(cmd, profile, apply)
		},
	}
	bindProfileFlags(recommend.Flags(), &profile)
	recommend.Flags().BoolVar(&apply, "apply", false, "Store the recommended goals")

	goals.AddCommand(set, recommend)
	return goals
}

func newProfileCmd() *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show the profile used for goal recommendations",
		Args:  cobra.NoArgs,
		RunE:  runProfile,
	}

	var p models.Profile
	set := &cobra.Command{
		Use:   "set",
		Short: "Change profile fields; omitted fields keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfileSet(cmd, p)
		},
	}
	bindProfileFlags(set.Flags(), &p)

	profile.AddCommand(set)
	return profile
}

func bindGoalFlags(fs *pflag.FlagSet, g *models.Goals) {
	fs.Float64Var(&g.Calories, "calories", 0, "Daily calories (kcal)")
	fs.Float64Var(&g.ProteinG, "protein", 0, "Daily protein (g)")
	fs.Float64Var(&g.CarbsG, "carbs", 0, "Daily carbohydrates (g)")
	fs.Float64Var(&g.FatG, "fat", 0, "Daily fat (g)")
	fs.Float64Var(&g.FiberG, "fiber", 0, "Daily fiber (g)")
}

func bindProfileFlags(fs *pflag.FlagSet, p *models.Profile) {
	fs.IntVar(&p.Age, "age", 0, "Age in years")
	fs.StringVar(&p.Gender, "gender", "", "male or female")
	fs.Float64Var(&p.Height, "height", 0, "Height in centimetres")
	fs.Float64Var(&p.Weight, "weight", 0, "Weight in kilograms")
	fs.StringVar(&p.ActivityLevel, "activity", "", "sedentary, lightly_active, moderately_active or very_active")
	fs.StringVar(&p.FitnessGoal, "goal", "", "lose, maintain or gain")
}

// mergeGoals overlays the flags that were set onto base.
func mergeGoals(fs *pflag.FlagSet, base, flags models.Goals) models.Goals {
	if fs.Changed("calories") {
		base.Calories = flags.Calories
	}
	if fs.Changed("protein") {
		base.ProteinG = flags.ProteinG
	}
	if fs.Changed("carbs") {
		base.CarbsG = flags.CarbsG
	}
	if fs.Changed("fat") {
		base.FatG = flags.FatG
	}
	if fs.Changed("fiber") {
		base.FiberG = flags.FiberG
	}
	return base
}

// mergeProfile overlays the flags that were set onto base.
func mergeProfile(fs *pflag.FlagSet, base, flags models.Profile) models.Profile {
	if fs.Changed("age") {
		base.Age = flags.Age
	}
	if fs.Changed("gender") {
		base.Gender = flags.Gender
	}
	if fs.Changed("height") {
		base.Height = flags.Height
	}
	if fs.Changed("weight") {
		base.Weight = flags.Weight
	}
	if fs.Changed("activity") {
		base.ActivityLevel = flags.ActivityLevel
	}
	if fs.Changed("goal") {
		base.FitnessGoal = flags.FitnessGoal
	}
	return base
}

func runGoals(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	return printGoals(cmd.OutOrStdout(), a.tracker.Goals())
}

func runGoalsSet(cmd *cobra.Command, flags models.Goals) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	goals, err := a.tracker.ApplyGoals(cmd.Context(), mergeGoals(cmd.Flags(), a.tracker.Goals(), flags))
	if perr := printGoals(cmd.OutOrStdout(), goals); perr != nil {
		return perr
	}
	return err
}

func runGoalsRecommend(cmd *cobra.Command, flags models.Profile, apply bool) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	profile := mergeProfile(cmd.Flags(), a.tracker.Profile(), flags)
	goals, saveErr := a.tracker.RecommendGoals(ctx, profile)
	if goals == nil {
		return saveErr
	}

	out := cmd.OutOrStdout()
	if !apply {
		if err := printGoals(out, *goals); err != nil {
			return err
		}
		if !asJSON {
			fmt.Fprintln(out, "\nRun again with --apply to use these goals.")
		}
		return saveErr
	}

	applied, err := a.tracker.ApplyGoals(ctx, *goals)
	if perr := printGoals(out, applied); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	return saveErr
}

func runProfile(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	return printProfile(cmd.OutOrStdout(), a.tracker.Profile())
}

func runProfileSet(cmd *cobra.Command, flags models.Profile) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	profile, err := a.tracker.SaveProfile(cmd.Context(), mergeProfile(cmd.Flags(), a.tracker.Profile(), flags))
	if err != nil && !service.IsSaveError(err) {
		return err
	}
	if perr := printProfile(cmd.OutOrStdout(), profile); perr != nil {
		return perr
	}
	return err
}
