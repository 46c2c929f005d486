package types

// Version is the application version, overwritten at build time via ldflags
var Version = "dev"

// AppName is the service name used in logs and the health endpoint
const AppName = "iocost-bot"

// BranchPrefix is the namespace of branches owned by this bot. A branch is
// named BranchPrefix/<issue number> so repeated runs for the same issue
// converge onto one branch.
const BranchPrefix = "iocost-bot"
