package response

// StateResponse is the snapshot the front end polls after each operation.
type StateResponse struct {
	Loading     bool       `json:"loading"`
	Initialized bool       `json:"initialized"`
	Error       *ErrorInfo `json:"error,omitempty"`
	Shows       int        `json:"shows"`
	Bookings    int        `json:"bookings"`
}

type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StatusResponse reports remote reachability for the "API Connected" badge.
type StatusResponse struct {
	RemoteOnline  *bool  `json:"remote_online"`
	LastCheckedAt string `json:"last_checked_at,omitempty"`
	PendingSync   int    `json:"pending_sync"`
}
