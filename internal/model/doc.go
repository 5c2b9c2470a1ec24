package model

// Package model defines the job record and its lifecycle states shared
// between the dispatcher and the download supervisor.
