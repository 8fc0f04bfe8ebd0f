// Package version хранит сведения о сборке, которые проставляются через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/pedidos/internal/version.version=v1.2.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// GetVersion возвращает версию сборки.
func GetVersion() string { return version }

// GetCommit возвращает коммит сборки.
func GetCommit() string { return commit }

// GetDate возвращает дату сборки.
func GetDate() string { return date }

// String — строка для логов.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}

// Banner — строка для `pedidos version`.
func Banner() string {
	return fmt.Sprintf("pedidos %s (commit %s, built %s)", version, commit, date)
}
