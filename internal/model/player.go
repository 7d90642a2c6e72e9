package model

// PlayerID uniquely identifies a player within a session
type PlayerID string
