package iostore

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/pkg/errcode"
)

// LookupError is returned when a record cannot be looked up.
func LookupError(key string, err error) error {
	msg := "Cannot look up record <em>%s</em>"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreLookupError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: lookup of %s failed: %w", fn.Name(), key, err),
	}
}

// WriteError is returned when the store rejects a write.
func WriteError(what string, err error) error {
	msg := "Cannot save <em>%s</em>"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write of %s failed: %w", fn.Name(), what, err),
	}
}

// ReadError is returned when stored data cannot be read.
func ReadError(what string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read of %s failed: %w", fn.Name(), what, err),
	}
}

// RecordNotFoundError is returned for operations on a missing record.
func RecordNotFoundError(recordID string) error {
	msg := "Record <em>%s</em> does not exist"
	return &gn.Error{
		Code: errcode.StoreRecordNotFoundError,
		Msg:  msg,
		Vars: []any{recordID},
		Err:  fmt.Errorf("record %s not found", recordID),
	}
}

func isNotFound(err error) bool {
	var gnErr *gn.Error
	return errors.As(err, &gnErr) &&
		gnErr.Code == errcode.StoreRecordNotFoundError
}

var errDuplicate = errors.New("record already exists")
