// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/rollcall/internal/app/accounts"
	attendancestore "github.com/dalemusser/rollcall/internal/app/store/attendance"
	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	sharelinkstore "github.com/dalemusser/rollcall/internal/app/store/sharelinks"
	studentstore "github.com/dalemusser/rollcall/internal/app/store/students"
)

// DBDeps bundles the document store and the services built on it. It is
// created in ConnectDB and handed to the later lifecycle hooks.
type DBDeps struct {
	Store docstore.DB

	Accounts   *accounts.Manager
	Students   *studentstore.Store
	Attendance *attendancestore.Store
	ShareLinks *sharelinkstore.Store
}
