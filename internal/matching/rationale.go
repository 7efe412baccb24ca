package matching

import (
	"fmt"
	"strings"
)

func rationale(total int, trade string, matching []string, skillLimit int) string {
	var base string
	switch {
	case total >= 90:
		base = fmt.Sprintf("excellent match — proven track record for %s", strings.TrimSpace(trade))
	case total >= 80:
		base = "strong candidate — reliable with relevant experience"
	case total >= 70:
		base = "good option — meets requirements"
	default:
		base = "potential match — consider as backup"
	}

	if skillLimit <= 0 || len(matching) == 0 {
		return base
	}
	if len(matching) > skillLimit {
		matching = matching[:skillLimit]
	}
	return fmt.Sprintf("%s (%s)", base, strings.Join(matching, ", "))
}
