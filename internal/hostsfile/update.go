package hostsfile

import (
	"fmt"
	"os"
	"slices"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/textfile"
)

// Update reads the hosts-mapping file at path, reconciles it, and
// atomically rewrites it when the contents change. A backup is taken
// before the rewrite, never for no-ops. A missing file aborts the run:
// reconciliation edits an existing file, it does not create one.
func Update(path string, opts Options) (Action, error) {
	lines, trailingNewline, err := textfile.ReadLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ActionSkipped, errors.New(errors.ErrPrecheck,
				fmt.Sprintf("%s does not exist", path),
				"Create the file first, or check --config if it lives somewhere else.")
		}
		return ActionSkipped, errors.WrapWithCode(err, errors.ErrPrecheck,
			fmt.Sprintf("Couldn't read %s", path), "")
	}

	out, action := Reconcile(lines, opts)
	if slices.Equal(out, lines) {
		if action == ActionSkipped {
			return ActionSkipped, nil
		}
		return ActionUnchanged, nil
	}

	if _, err := textfile.Backup(path); err != nil {
		return action, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't back up %s", path), "")
	}
	if err := textfile.WriteLinesAtomic(path, out, trailingNewline, textfile.FileMode(path, 0644)); err != nil {
		return action, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't rewrite %s", path), "")
	}
	return action, nil
}
