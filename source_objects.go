package main

import (
	"fmt"
	"strings"
)

// SourceObjects holds non-table source objects that are not translated.
type SourceObjects struct {
	Views    []string
	Routines []string
	Triggers []string
}

// add files an object by its sys.objects type_desc.
func (o *SourceObjects) add(typeDesc, name string) {
	switch {
	case typeDesc == "VIEW":
		o.Views = append(o.Views, name)
	case strings.HasSuffix(typeDesc, "TRIGGER"):
		o.Triggers = append(o.Triggers, name)
	default:
		o.Routines = append(o.Routines, fmt.Sprintf("%s %s", typeDesc, name))
	}
}

func sourceObjectWarnings(objs *SourceObjects) []string {
	if objs == nil {
		return nil
	}

	var warnings []string
	if len(objs.Views) == 0 && len(objs.Routines) == 0 && len(objs.Triggers) == 0 {
		return warnings
	}

	warnings = append(warnings,
		fmt.Sprintf(
			"source contains non-table objects not included in the script (%d views, %d routines, %d triggers)",
			len(objs.Views), len(objs.Routines), len(objs.Triggers),
		),
	)
	for _, v := range objs.Views {
		warnings = append(warnings, fmt.Sprintf("view: %s", v))
	}
	for _, r := range objs.Routines {
		warnings = append(warnings, fmt.Sprintf("routine: %s", r))
	}
	for _, t := range objs.Triggers {
		warnings = append(warnings, fmt.Sprintf("trigger: %s", t))
	}
	return warnings
}
