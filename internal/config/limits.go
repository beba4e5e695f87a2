package config

import "time"

// WebSocket connection limits and constraints
const (
	// Connection limits
	MaxRoomsPerInstance = 1000
	MaxTotalConnections = 10000

	// Rate limiting
	MaxMessagesPerSecond = 20
	RateLimitWindow      = time.Second

	// Input limits
	MaxAnswerLength          = 500
	MaxParticipantNameLength = 50

	// Timeouts
	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second
	PongTimeout  = 90 * time.Second // 3x ping interval for network delay tolerance

	// Channel buffers
	ClientSendBufferSize  = 256
	HubInboundBufferSize  = 256
	HubRegisterBufferSize = 100
)
