package workflow

import (
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var shellLog = logger.New("workflow:shell")

// shellJoinArgs joins command arguments with proper shell escaping
func shellJoinArgs(args []string) string {
	shellLog.Printf("Joining %d shell arguments with escaping", len(args))
	escapedArgs := make([]string, 0, len(args))
	for _, arg := range args {
		escapedArgs = append(escapedArgs, ShellEscapeArg(arg))
	}
	return strings.Join(escapedArgs, " ")
}

// ShellEscapeArg escapes a single argument for safe use in shell commands.
// Arguments that are already quoted are left alone so "$VAR" still expands.
func ShellEscapeArg(arg string) string {
	if len(arg) >= 2 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		return arg
	}
	if len(arg) >= 2 && arg[0] == '\'' && arg[len(arg)-1] == '\'' {
		return arg
	}

	if strings.ContainsAny(arg, "()[]{}*?$`\"'\\|&;<>! \t\n") {
		// '\'' closes the quote, emits a literal quote and reopens it
		escaped := strings.ReplaceAll(arg, "'", "'\\''")
		return "'" + escaped + "'"
	}
	return arg
}
