package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound     = "user not found"
	errDocumentNotFound = "document not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedMigrateFmt              = "failed to apply schema: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"
	errFailedCountUsersFmt = "failed to count users: %w"

	errFailedListDocumentsFmt  = "failed to list %s documents: %w"
	errFailedGetDocumentFmt    = "failed to get document: %w"
	errFailedCreateDocumentFmt = "failed to create document: %w"
	errFailedUpdateDocumentFmt = "failed to update document: %w"
	errFailedDeleteDocumentFmt = "failed to delete document: %w"
	errFailedEncodeFieldsFmt   = "failed to encode document fields: %w"
	errFailedDecodeFieldsFmt   = "failed to decode document fields: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedMigrate              = func(err error) error { return fmt.Errorf(errFailedMigrateFmt, err) }
	errFailedCreateUser           = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedCountUsers           = func(err error) error { return fmt.Errorf(errFailedCountUsersFmt, err) }
	errFailedListDocuments        = func(resource string, err error) error { return fmt.Errorf(errFailedListDocumentsFmt, resource, err) }
	errFailedGetDocument          = func(err error) error { return fmt.Errorf(errFailedGetDocumentFmt, err) }
	errFailedCreateDocument       = func(err error) error { return fmt.Errorf(errFailedCreateDocumentFmt, err) }
	errFailedUpdateDocument       = func(err error) error { return fmt.Errorf(errFailedUpdateDocumentFmt, err) }
	errFailedDeleteDocument       = func(err error) error { return fmt.Errorf(errFailedDeleteDocumentFmt, err) }
	errFailedEncodeFields         = func(err error) error { return fmt.Errorf(errFailedEncodeFieldsFmt, err) }
	errFailedDecodeFields         = func(err error) error { return fmt.Errorf(errFailedDecodeFieldsFmt, err) }
)
