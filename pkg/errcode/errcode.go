package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBUnsupportedDriverError
	DBTableCheckError
	DBNotConnectedError
	DBDropTableError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreLookupError
	StoreWriteError
	StoreReadError
	StoreRecordNotFoundError

	// Spreadsheet errors
	SheetOpenError
	SheetReadError
	SheetNotFoundError

	// Import errors
	ImportBusyError
	ImportSourceReadError
	ImportTaxaError
	ImportSaveRunError
	ImportReportError
	ImportSpeciesSeedError
)
