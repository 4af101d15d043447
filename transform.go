package main

import "fmt"

// unmappedType is written in place of a type clause when no rule matches,
// so the operator can find and hand-fix the column in the script.
const unmappedType = "NOTFOUND"

type typeRule func(col Column) string

func fixed(clause string) typeRule {
	return func(Column) string { return clause }
}

// typeRules maps sp_columns TYPE_NAME values to MySQL column types.
// Matching is case-sensitive.
var typeRules = map[string]typeRule{
	// LENGTH is reported in bytes; nvarchar stores two bytes per character.
	"nvarchar": func(c Column) string { return fmt.Sprintf("VARCHAR(%d) CHARACTER SET utf8mb4", c.Size/2) },
	"varchar":  func(c Column) string { return fmt.Sprintf("VARCHAR(%d) CHARACTER SET utf8mb4", c.Size) },
	"text":     fixed("LONGTEXT CHARACTER SET utf8mb4"),
	"ntext":    fixed("LONGTEXT CHARACTER SET utf8mb4"),
	"char":     func(c Column) string { return fmt.Sprintf("CHAR(%d) CHARACTER SET utf8mb4", c.Size) },
	"nchar":    func(c Column) string { return fmt.Sprintf("CHAR(%d) CHARACTER SET utf8mb4", c.Size) },

	"int":          fixed("INT"),
	"int8":         fixed("INT"),
	"smallint":     fixed("SMALLINT"),
	"int identity": fixed("INT AUTO_INCREMENT"),

	"datetime":       fixed("DATETIME"),
	"smalldatetime":  fixed("DATETIME"),
	"datetimeoffset": fixed("DATETIME"),

	// CHAR(13) cannot hold the 36 character canonical form; kept as the
	// established output of this tool.
	"uniqueidentifier": fixed("CHAR(13)"),

	"image":     fixed("LONGBLOB"),
	"binary":    fixed("LONGBLOB"),
	"varbinary": fixed("LONGBLOB"),

	"money":      decimalRule,
	"smallmoney": decimalRule,
	"decimal":    decimalRule,
	"numeric":    decimalRule,

	"float": fixed("FLOAT"),
	"real":  fixed("FLOAT"),
	"bit":   fixed("TINYINT(1)"),
}

func decimalRule(c Column) string {
	scale := 0
	if c.Scale != nil {
		scale = *c.Scale
	}
	return fmt.Sprintf("DECIMAL(%d,%d)", c.Precision, scale)
}

// mapType returns the MySQL type clause for a SQL Server column. When the
// source type has no rule it returns the NOTFOUND placeholder and false.
func mapType(col Column) (string, bool) {
	rule, ok := typeRules[col.TypeName]
	if !ok {
		return unmappedType, false
	}
	return rule(col), true
}
