package hotkey

import "runtime"

// Conflict describes a shortcut the operating system or desktop usually
// claims for itself.
type Conflict struct {
	Name        string
	Description string
}

var knownConflicts = map[string]map[Hotkey]Conflict{
	"windows": {
		MustParse("ALT+TAB"):        {"Alt+Tab", "switch windows"},
		MustParse("ALT+F4"):         {"Alt+F4", "close window"},
		MustParse("CTRL+ALT+DEL"):   {"Ctrl+Alt+Del", "secure attention sequence"},
		MustParse("CTRL+SHIFT+ESC"): {"Ctrl+Shift+Esc", "task manager"},
		MustParse("WIN+L"):          {"Win+L", "lock workstation"},
		MustParse("WIN+D"):          {"Win+D", "show desktop"},
		MustParse("WIN+E"):          {"Win+E", "file explorer"},
		MustParse("WIN+R"):          {"Win+R", "run dialog"},
		MustParse("WIN+TAB"):        {"Win+Tab", "task view"},
		MustParse("WIN+SHIFT+S"):    {"Win+Shift+S", "screen snip"},
	},
	"darwin": {
		MustParse("CMD+TAB"):        {"Cmd+Tab", "application switcher"},
		MustParse("CMD+SPACE"):      {"Cmd+Space", "Spotlight"},
		MustParse("CMD+Q"):          {"Cmd+Q", "quit application"},
		MustParse("CMD+W"):          {"Cmd+W", "close window"},
		MustParse("CMD+H"):          {"Cmd+H", "hide application"},
		MustParse("CMD+SHIFT+3"):    {"Cmd+Shift+3", "screenshot"},
		MustParse("CMD+SHIFT+4"):    {"Cmd+Shift+4", "screenshot selection"},
		MustParse("CTRL+CMD+Q"):     {"Ctrl+Cmd+Q", "lock screen"},
		MustParse("CMD+OPTION+ESC"): {"Cmd+Option+Esc", "force quit"},
	},
	"linux": {
		MustParse("ALT+TAB"):      {"Alt+Tab", "switch windows"},
		MustParse("ALT+F4"):       {"Alt+F4", "close window"},
		MustParse("ALT+F2"):       {"Alt+F2", "run command"},
		MustParse("CTRL+ALT+T"):   {"Ctrl+Alt+T", "open terminal"},
		MustParse("CTRL+ALT+DEL"): {"Ctrl+Alt+Del", "log out"},
		MustParse("SUPER+L"):      {"Super+L", "lock screen"},
	},
}

// KnownConflicts returns the well-known system shortcuts equal to hk on the
// current platform. Registration is still attempted; the OS decides.
func KnownConflicts(hk Hotkey) []Conflict {
	return knownConflictsFor(runtime.GOOS, hk)
}

func knownConflictsFor(goos string, hk Hotkey) []Conflict {
	c, ok := knownConflicts[goos][hk]
	if !ok {
		return nil
	}
	return []Conflict{c}
}
