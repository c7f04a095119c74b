package pipeline

import "strings"

// TableContainerClass is the class of the div wrapped around each table.
const TableContainerClass = "table-container"

var tableWrapper = strings.NewReplacer(
	"<table>", `<div class="`+TableContainerClass+`">`+"\n<table>",
	"</table>", "</table>\n</div>",
)

// WrapTables wraps every <table>...</table> in a container div so wide
// tables can scroll horizontally.
func WrapTables(fragment string) string {
	return tableWrapper.Replace(fragment)
}
