package relay

const Version = "v0.1.0"
