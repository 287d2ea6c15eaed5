package topics

const (
	// Chat de grupo (entregue externamente pelo delivery worker)
	GroupMessages = "group_messages"

	// DLQ
	GroupMessagesDLQ = "group_messages_dlq"
)
