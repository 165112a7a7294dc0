package kinds

import (
	"context"
	"fmt"

	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/internal/task/kinds/runner"
)

// packageManager names the command-line front-end a package-family kind
// shells out to, and how it checks whether a name is already installed.
type packageManager struct {
	install   func(name string) (cmd string, args []string)
	query     func(name string) (cmd string, args []string)
	uninstall func(name string) (cmd string, args []string)
}

var packageManagers = map[string]packageManager{
	"package": aptManager, // generic alias resolves to the host distro's front-end; apt stands in absent OS detection (out of scope per spec.md §1)
	"apt":     aptManager,
	"yum":     {install: dnfArgs("install"), query: rpmQueryArgs, uninstall: dnfArgs("remove")},
	"pacman":  {install: pacmanArgs("-S", "--noconfirm"), query: pacmanQueryArgs, uninstall: pacmanArgs("-R", "--noconfirm")},
	"zypper":  {install: zypperArgs("install"), query: rpmQueryArgs, uninstall: zypperArgs("remove")},
	"pip":     {install: pipArgs("install"), query: pipQueryArgs, uninstall: pipArgs("uninstall")},
	"npm":     {install: npmArgs("install", "-g"), query: npmQueryArgs, uninstall: npmArgs("uninstall", "-g")},
	"gem":     {install: gemArgs("install"), query: gemQueryArgs, uninstall: gemArgs("uninstall")},
}

var aptManager = packageManager{
	install:   aptArgs("install", "-y"),
	query:     dpkgQueryArgs,
	uninstall: aptArgs("remove", "-y"),
}

func aptArgs(verb string, flags ...string) func(string) (string, []string) {
	return func(name string) (string, []string) {
		return "apt-get", append(append([]string{verb}, flags...), name)
	}
}
func dnfArgs(verb string) func(string) (string, []string) {
	return func(name string) (string, []string) { return "yum", []string{verb, "-y", name} }
}
func pacmanArgs(verb string, flags ...string) func(string) (string, []string) {
	return func(name string) (string, []string) { return "pacman", append(append([]string{verb}, flags...), name) }
}
func zypperArgs(verb string) func(string) (string, []string) {
	return func(name string) (string, []string) { return "zypper", []string{verb, "-y", name} }
}
func pipArgs(verb string) func(string) (string, []string) {
	return func(name string) (string, []string) { return "pip", []string{verb, name} }
}
func npmArgs(verb string, flags ...string) func(string) (string, []string) {
	return func(name string) (string, []string) { return "npm", append(append([]string{verb}, flags...), name) }
}
func gemArgs(verb string) func(string) (string, []string) {
	return func(name string) (string, []string) { return "gem", []string{verb, name} }
}

func dpkgQueryArgs(name string) (string, []string)  { return "dpkg", []string{"-s", name} }
func rpmQueryArgs(name string) (string, []string)   { return "rpm", []string{"-q", name} }
func pacmanQueryArgs(name string) (string, []string) { return "pacman", []string{"-Q", name} }
func pipQueryArgs(name string) (string, []string)    { return "pip", []string{"show", name} }
func npmQueryArgs(name string) (string, []string)    { return "npm", []string{"list", "-g", name} }
func gemQueryArgs(name string) (string, []string)    { return "gem", []string{"list", "-i", name} }

// RegisterPackage wires package, apt, yum, pacman, zypper, pip, npm, and
// gem against reg, each querying/installing through r (spec.md §4.1's
// package-family kinds; OS-backend correctness is explicitly out of scope
// per spec.md §1, so each manager shells out to its native front-end
// rather than reimplementing dependency resolution).
func RegisterPackage(reg *task.Registry, r runner.Runner) {
	for kind, mgr := range packageManagers {
		reg.Register(kind, packageExecutor(mgr, r), requireNonEmpty("name"))
	}
}

func packageExecutor(mgr packageManager, rn runner.Runner) task.Executor {
	return func(ctx context.Context, t *task.Task, ec *task.ExecContext) (task.Result, error) {
		name := t.AttrString("name")
		state := t.AttrString("state")
		if state == "" {
			state = "present"
		}

		queryCmd, queryArgs := mgr.query(name)
		queryRes, queryErr := rn.Run(ctx, taskTimeout(t), queryCmd, queryArgs...)
		installed := queryErr == nil && queryRes.ExitCode == 0

		if state == "absent" {
			if !installed {
				return task.Result{Changed: false}, nil
			}
			if ec.DryRun {
				return task.Result{Changed: true, Data: map[string]interface{}{"would": "remove package " + name}}, nil
			}
			cmd, args := mgr.uninstall(name)
			if _, err := rn.Run(ctx, taskTimeout(t), cmd, args...); err != nil {
				return task.Result{}, fmt.Errorf("removing package %s: %w", name, err)
			}
			return task.Result{Changed: true}, nil
		}

		if installed {
			return task.Result{Changed: false}, nil
		}
		if ec.DryRun {
			return task.Result{Changed: true, Data: map[string]interface{}{"would": "install package " + name}}, nil
		}
		cmd, args := mgr.install(name)
		if _, err := rn.Run(ctx, taskTimeout(t), cmd, args...); err != nil {
			return task.Result{}, fmt.Errorf("installing package %s: %w", name, err)
		}
		return task.Result{Changed: true}, nil
	}
}
