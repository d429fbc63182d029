package loadtest

import "time"

// Defaults applied by Normalize.
const (
	DefaultNumTeams = 20
	DefaultWorkers  = 8
	DefaultTimeout  = 30 * time.Second
	DefaultSettle   = 2 * time.Minute
)

const (
	pollInterval         = 250 * time.Millisecond
	workerChannelFactor  = 2
	percentageMultiplier = 100
	maxResponseBytes     = 1 << 20
)

var formations = []string{"4-4-2", "4-3-3", "3-5-2", "4-2-3-1", "5-3-2", "4-5-1", "3-4-3"}

var clubSuffixes = []string{"FC", "United", "City", "Athletic", "Rovers", "Town", "Wanderers", "Albion"}
