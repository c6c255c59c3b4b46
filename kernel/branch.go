package kernel

import "github.com/JStLouisCode/SYSC4001-A2-P3/trace"

// A childBranch is the part of a trace that a forked child interprets.
type childBranch struct {
	lines []string

	// resume is the index after which the parent continues.
	resume int
}

// carveChildBranch splits the lines that follow the FORK at index fork.
//
// The child gets the IF_CHILD body, followed by the lines after ENDIF. An
// EXEC in the IF_CHILD body is the last line of the child. The parent resumes
// at the first IF_PARENT. Without IF_PARENT, it resumes at the ENDIF that
// closes the IF_CHILD body, or skips the rest of the trace if that is
// missing too. A FORK without IF_CHILD has an empty child, and the parent
// resumes right after it.
//
// IF_CHILD blocks nested in either body belong to a later FORK and are
// copied or skipped as plain lines.
func carveChildBranch(lines []string, fork int) childBranch {
	branch := childBranch{resume: -1}
	skip := true
	sawChild := false
	execSeen := false
	endIf := -1
	depth := 0

scan:
	for j := fork + 1; j < len(lines); j++ {
		line := lines[j]
		activity, isActivity := trace.ActivityOf(line)

		if depth > 0 {
			if isActivity && activity == trace.IfChild {
				depth++
			} else if isActivity && activity == trace.EndIf {
				depth--
			}

			if !skip {
				branch.lines = append(branch.lines, line)
			}

			continue
		}

		switch {
		case !isActivity:
		case activity == trace.IfChild && skip && !sawChild:
			skip = false
			sawChild = true

			continue
		case activity == trace.IfChild:
			depth++
		case activity == trace.IfParent:
			skip = true

			if branch.resume < 0 {
				branch.resume = j
			}

			if execSeen {
				break scan
			}
		case activity == trace.EndIf && sawChild:
			if endIf < 0 {
				endIf = j
			}

			if skip {
				skip = false
				continue
			}
		case activity == trace.Exec && !skip:
			branch.lines = append(branch.lines, line)
			skip = true
			execSeen = true

			continue
		}

		if !skip {
			branch.lines = append(branch.lines, line)
		}
	}

	if branch.resume < 0 {
		switch {
		case endIf >= 0:
			branch.resume = endIf
		case sawChild:
			branch.resume = len(lines)
		default:
			branch.resume = fork
		}
	}

	return branch
}
