package model

// TxType identifies which kind of allocation transition a block records.
type TxType string

var (
	// TxAllocation records creation of an allocation.
	TxAllocation TxType = "ALLOCATION"
	// TxStatusChange records an approval status change.
	TxStatusChange TxType = "STATUS_CHANGE"
	// TxReceived records that the district acknowledged receipt of funds.
	TxReceived TxType = "RECEIVED"
	// TxAssignedBlock records assignment of funds to an administrative block.
	TxAssignedBlock TxType = "ASSIGNED_BLOCK"
	// TxAssignedSchool records assignment of funds to a school.
	TxAssignedSchool TxType = "ASSIGNED_SCHOOL"
	// TxUtilized records utilization of the allocated funds.
	TxUtilized TxType = "UTILIZED"
)

// TxTypes lists every known transaction kind.
func TxTypes() []TxType {
	return []TxType{TxAllocation, TxStatusChange, TxReceived, TxAssignedBlock, TxAssignedSchool, TxUtilized}
}

// Valid reports whether t belongs to the closed set of transaction kinds.
func (t TxType) Valid() bool {
	for _, known := range TxTypes() {
		if t == known {
			return true
		}
	}
	return false
}
