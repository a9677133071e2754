package buildsys

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// RunTarget executes the named target after its dependencies. Every target
// runs at most once per call. In a dry run the plan is logged instead.
func RunTarget(ctx context.Context, env *Env, targets TargetList, name string, opts Options) error {
	plan, err := Plan(targets, name)
	if err != nil {
		return err
	}

	if env.DryRun {
		flags := []string{}
		for flag, enabled := range opts {
			if enabled {
				flags = append(flags, "--"+flag)
			}
		}
		sort.Strings(flags)

		steps := append([]string{}, plan...)
		steps[len(steps)-1] = strings.TrimSpace(name + " " + strings.Join(flags, " "))

		Logger(ctx).Info().
			Strs("plan", plan).
			Msgf("would run %s", strings.Join(steps, ", "))
		return nil
	}

	for _, step := range plan {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// options only apply to the target they were passed to
		stepOpts := Options{}
		if step == name {
			stepOpts = opts
		}

		Logger(ctx).Debug().
			Str("target", step).
			Msg("running")

		err = targets[step].Run(ctx, env, stepOpts)
		if err != nil {
			if step != name {
				return eris.Wrapf(err, "Target %s failed due to its dependency %s", name, step)
			}
			return err
		}
	}

	return nil
}

// Plan returns the order in which RunTarget would execute the named target
// and its dependencies.
func Plan(targets TargetList, name string) ([]string, error) {
	plan := []string{}
	state := map[string]bool{}

	var visit func(name string) error
	visit = func(name string) error {
		done, seen := state[name]
		if seen {
			if !done {
				return eris.Errorf("Target %s was called recursively", name)
			}
			return nil
		}

		target, found := targets[name]
		if !found {
			return eris.Errorf("Target %s not found", name)
		}

		state[name] = false
		for _, dep := range target.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = true
		plan = append(plan, name)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return plan, nil
}
