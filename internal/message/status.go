package message

// GlobalSyncStatus is the daemon-wide transfer state, rebuilt every tick.
type GlobalSyncStatus struct {
	IsSyncing bool
	SentBytes int64
	RecvBytes int64
}

// DecodeGlobalSyncStatus decodes a sync status payload.
func DecodeGlobalSyncStatus(p Payload) GlobalSyncStatus {
	return GlobalSyncStatus{
		IsSyncing: p.Bool("is_syncing"),
		SentBytes: p.Int64("sent_bytes"),
		RecvBytes: p.Int64("recv_bytes"),
	}
}
