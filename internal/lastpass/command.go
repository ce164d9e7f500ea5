package lastpass

// Actions understood by lpass that this package uses.
const (
	ActionStatus = "status"
	ActionShow   = "show"
)

// colorFlag keeps lpass output free of ANSI escapes so it can be parsed.
const colorFlag = "--color=never"

// CommandBuilder turns lookup requests into lpass argument vectors.
// It holds no state besides the executable path and never fails on its own.
type CommandBuilder struct {
	Command string
}

// Build returns [Command, action, --color=never, extraArgs...].
func (b CommandBuilder) Build(action string, extraArgs ...string) []string {
	argv := make([]string, 0, 3+len(extraArgs))
	argv = append(argv, b.Command, action, colorFlag)
	return append(argv, extraArgs...)
}

// ShowArgs maps opts to show flags in a fixed order and appends target.
// Invalid field selections are rejected here, before anything is executed.
func ShowArgs(target string, opts LookupOptions) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var args []string

	if opts.Sync != "" {
		args = append(args, "--sync="+string(opts.Sync))
	}

	if opts.ExpandMulti {
		args = append(args, "--expand-multi")
	}

	switch {
	case opts.AsDict:
		args = append(args, "--all")
	case IsNamedField(opts.Field):
		args = append(args, "--"+opts.Field)
	default:
		args = append(args, "--field="+opts.Field)
	}

	if opts.BasicRegexp {
		args = append(args, "--basic-regexp")
	} else if opts.FixedStrings {
		args = append(args, "--fixed-strings")
	}

	return append(args, target), nil
}

// Show builds the full argv for a show call.
func (b CommandBuilder) Show(target string, opts LookupOptions) ([]string, error) {
	args, err := ShowArgs(target, opts)
	if err != nil {
		return nil, err
	}
	return b.Build(ActionShow, args...), nil
}
