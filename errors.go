package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/ByLCY/stitch/stitcherr"
)

var errorLabel = color.New(color.FgRed, color.Bold)

// handleError 以 "Error [kind]: message" 的形式输出错误。
func handleError(w io.Writer, err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	label := "Error"
	if kind, ok := stitcherr.KindOf(err); ok {
		label = fmt.Sprintf("Error [%s]", kind)
	}
	fmt.Fprintf(w, "%s: %s\n", errorLabel.Sprint(label), err)
}
