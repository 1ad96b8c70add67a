package convo

// Stage is the conversation's position in the ordering flow. Every stage has
// a handler in Engine.advance.
type Stage string

const (
	StageInit        Stage = "INIT"
	StageAskName     Stage = "ASK_NAME"
	StageAskBundles  Stage = "ASK_BUNDLES"
	StageAskAddress  Stage = "ASK_ADDRESS"
	StageAskPostcode Stage = "ASK_POSTCODE"
	StageAskSlot     Stage = "ASK_SLOT"
	StageConfirm     Stage = "CONFIRM"
	StageModify      Stage = "MODIFY"
)
