// Package database provides the PostgreSQL connection pool and the instrument
// map source for bridges whose universal→broker instrument names are kept in a
// table instead of the config file.
package database
