package ports

import (
	principalports "github.com/Apurer/petguard-api/internal/domains/principals/ports"
)

// Principals is the slice of the principals context the pets service depends on.
type Principals = principalports.Resolver
