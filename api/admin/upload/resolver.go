package upload

import (
	"errors"
	"fmt"
	"strings"

	"CiviPortal/api/constants"
)

// Upload write modes.
type Mode string

const (
	ModeAppend       Mode = "append"
	ModeReplaceYear  Mode = "replace_year"
	ModeReplaceTable Mode = "replace_table"
)

// ParseMode validates an operator-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAppend:
		return ModeAppend, nil
	case ModeReplaceYear:
		return ModeReplaceYear, nil
	case ModeReplaceTable:
		return ModeReplaceTable, nil
	}
	return "", errors.New(constants.ErrUnknownUploadMode)
}

// PlanRequest carries everything the resolver needs to admit or reject a
// validated batch.
type PlanRequest struct {
	Table string
	Mode  Mode
	// TargetYear and ConfirmYear are the operator-entered fiscal year, typed
	// twice, for replace_year mode.
	TargetYear  int
	ConfirmYear int
	// ConfirmReplaceAll is the explicit operator confirmation for
	// replace_table mode.
	ConfirmReplaceAll bool
	RowCount          int
	YearsInData       []int
}

// WritePlan is the bulk operation that must precede the insert. Exactly one
// of the delete fields is set for replace modes; append has no delete step.
type WritePlan struct {
	Table      string
	Mode       Mode
	DeleteAll  bool
	DeleteYear int // 0 means no per-year delete
}

// ResolvePlan decides whether a batch is admissible and what bulk delete
// must run before the insert. Any precondition violation rejects the whole
// operation before a single row is written; there is no partial-apply path.
func ResolvePlan(req PlanRequest) (WritePlan, error) {
	plan := WritePlan{Table: req.Table, Mode: req.Mode}

	if SchemaFor(req.Table) == nil {
		return WritePlan{}, errors.New(constants.ErrUnknownUploadTable)
	}
	if req.RowCount == 0 {
		return WritePlan{}, errors.New(constants.ErrUploadEmptyFile)
	}

	switch req.Mode {
	case ModeAppend:
		return plan, nil

	case ModeReplaceYear:
		if req.TargetYear == 0 {
			return WritePlan{}, errors.New(constants.ErrReplaceYearRequired)
		}
		if req.TargetYear != req.ConfirmYear {
			return WritePlan{}, errors.New(constants.ErrReplaceYearMismatch)
		}
		if len(req.YearsInData) != 1 {
			return WritePlan{}, fmt.Errorf(
				"replace-year uploads must contain a single fiscal year, but the file contains %s",
				joinYears(req.YearsInData))
		}
		if req.YearsInData[0] != req.TargetYear {
			return WritePlan{}, fmt.Errorf(
				"the file contains fiscal year %d but the target year is %d",
				req.YearsInData[0], req.TargetYear)
		}
		plan.DeleteYear = req.TargetYear
		return plan, nil

	case ModeReplaceTable:
		if !req.ConfirmReplaceAll {
			return WritePlan{}, errors.New(constants.ErrReplaceAllNotConfirmed)
		}
		plan.DeleteAll = true
		return plan, nil
	}

	return WritePlan{}, errors.New(constants.ErrUnknownUploadMode)
}

func joinYears(years []int) string {
	if len(years) == 0 {
		return "no fiscal years"
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%d", y)
	}
	return strings.Join(parts, ", ")
}
