package protocol

// Opcode names a remote terminal operation.
type Opcode string

// Opcode catalogue. The codes are fixed by the terminal side of the protocol.
const (
	OpCheckConnection       Opcode = "F000"
	OpAccountInfo           Opcode = "F001"
	OpAccountStatus         Opcode = "F002"
	OpInstrumentInfo        Opcode = "F003"
	OpInMarketWatch         Opcode = "F004"
	OpServerTime            Opcode = "F005"
	OpLicenseType           Opcode = "F006"
	OpBrokerInstruments     Opcode = "F007"
	OpTradingAllowed        Opcode = "F008"
	OpTerminalConnected     Opcode = "F011"
	OpTerminalType          Opcode = "F012"
	OpLastTick              Opcode = "F020"
	OpTicks                 Opcode = "F021"
	OpActualBar             Opcode = "F041"
	OpBars                  Opcode = "F042"
	OpSpecificBars          Opcode = "F045"
	OpPendingOrders         Opcode = "F060"
	OpOpenPositions         Opcode = "F061"
	OpClosedPositionsWindow Opcode = "F062"
	OpAllClosedPositions    Opcode = "F063"
	OpDeletedOrdersWindow   Opcode = "F064"
	OpAllDeletedOrders      Opcode = "F065"
	OpOpenOrder             Opcode = "F070"
	OpClosePosition         Opcode = "F071"
	OpClosePositionPartial  Opcode = "F072"
	OpDeleteOrder           Opcode = "F073"
	OpClosePositionBy       Opcode = "F074"
	OpSetPositionSLTP       Opcode = "F075"
	OpSetOrderSLTP          Opcode = "F076"
	OpResetPositionSLTP     Opcode = "F077"
	OpResetOrderSLTP        Opcode = "F078"
	OpChangeOrder           Opcode = "F079"
	OpSetGlobal             Opcode = "F080"
	OpGetGlobal             Opcode = "F081"
	OpSwitchAutotrading     Opcode = "F084"
	OpClosePositionsAsync   Opcode = "F091"
)

// Schema declares the shape of one operation: how many arguments it takes,
// whether the first argument is a universal instrument name that must be
// translated, and how many reply fields a successful reply must carry
// (opcode included, sentinel excluded).
type Schema struct {
	Opcode     Opcode
	Name       string
	Args       int
	Instrument bool
	MinFields  int
	Rows       bool // reply carries one $-separated record per field from field 2 on
}

// Catalogue holds the schema of every known operation.
var Catalogue = map[Opcode]Schema{
	OpCheckConnection:       {Opcode: OpCheckConnection, Name: "check connection", MinFields: 2},
	OpAccountInfo:           {Opcode: OpAccountInfo, Name: "account info", MinFields: 12},
	OpAccountStatus:         {Opcode: OpAccountStatus, Name: "account status", MinFields: 8},
	OpInstrumentInfo:        {Opcode: OpInstrumentInfo, Name: "instrument info", Args: 1, Instrument: true, MinFields: 13},
	OpInMarketWatch:         {Opcode: OpInMarketWatch, Name: "in market watch", Args: 1, Instrument: true, MinFields: 3},
	OpServerTime:            {Opcode: OpServerTime, Name: "server time", MinFields: 3},
	OpLicenseType:           {Opcode: OpLicenseType, Name: "license type", MinFields: 4},
	OpBrokerInstruments:     {Opcode: OpBrokerInstruments, Name: "broker instruments", MinFields: 2, Rows: true},
	OpTradingAllowed:        {Opcode: OpTradingAllowed, Name: "trading allowed", Args: 1, Instrument: true, MinFields: 3},
	OpTerminalConnected:     {Opcode: OpTerminalConnected, Name: "terminal connected", MinFields: 2},
	OpTerminalType:          {Opcode: OpTerminalType, Name: "terminal type", MinFields: 2},
	OpLastTick:              {Opcode: OpLastTick, Name: "last tick", Args: 1, Instrument: true, MinFields: 9},
	OpTicks:                 {Opcode: OpTicks, Name: "ticks", Args: 3, Instrument: true, MinFields: 2, Rows: true},
	OpActualBar:             {Opcode: OpActualBar, Name: "actual bar", Args: 2, Instrument: true, MinFields: 8},
	OpBars:                  {Opcode: OpBars, Name: "bars", Args: 4, Instrument: true, MinFields: 2, Rows: true},
	OpSpecificBars:          {Opcode: OpSpecificBars, Name: "specific bars", Args: 3, MinFields: 2, Rows: true},
	OpPendingOrders:         {Opcode: OpPendingOrders, Name: "pending orders", MinFields: 2, Rows: true},
	OpOpenPositions:         {Opcode: OpOpenPositions, Name: "open positions", MinFields: 2, Rows: true},
	OpClosedPositionsWindow: {Opcode: OpClosedPositionsWindow, Name: "closed positions within window", Args: 2, MinFields: 2, Rows: true},
	OpAllClosedPositions:    {Opcode: OpAllClosedPositions, Name: "all closed positions", MinFields: 2, Rows: true},
	OpDeletedOrdersWindow:   {Opcode: OpDeletedOrdersWindow, Name: "deleted orders within window", Args: 2, MinFields: 2, Rows: true},
	OpAllDeletedOrders:      {Opcode: OpAllDeletedOrders, Name: "all deleted orders", MinFields: 2, Rows: true},
	OpOpenOrder:             {Opcode: OpOpenOrder, Name: "open order", Args: 10, Instrument: true, MinFields: 4},
	OpClosePosition:         {Opcode: OpClosePosition, Name: "close position", Args: 1, MinFields: 1},
	OpClosePositionPartial:  {Opcode: OpClosePositionPartial, Name: "close position partial", Args: 2, MinFields: 1},
	OpDeleteOrder:           {Opcode: OpDeleteOrder, Name: "delete order", Args: 1, MinFields: 1},
	OpClosePositionBy:       {Opcode: OpClosePositionBy, Name: "close position by", Args: 2, MinFields: 1},
	OpSetPositionSLTP:       {Opcode: OpSetPositionSLTP, Name: "set position sl and tp", Args: 3, MinFields: 1},
	OpSetOrderSLTP:          {Opcode: OpSetOrderSLTP, Name: "set order sl and tp", Args: 3, MinFields: 1},
	OpResetPositionSLTP:     {Opcode: OpResetPositionSLTP, Name: "reset position sl and tp", Args: 1, MinFields: 1},
	OpResetOrderSLTP:        {Opcode: OpResetOrderSLTP, Name: "reset order sl and tp", Args: 1, MinFields: 1},
	OpChangeOrder:           {Opcode: OpChangeOrder, Name: "change order", Args: 4, MinFields: 1},
	OpSetGlobal:             {Opcode: OpSetGlobal, Name: "set global", Args: 2, MinFields: 1},
	OpGetGlobal:             {Opcode: OpGetGlobal, Name: "get global", Args: 1, MinFields: 4},
	OpSwitchAutotrading:     {Opcode: OpSwitchAutotrading, Name: "switch autotrading", Args: 1, MinFields: 1},
	OpClosePositionsAsync:   {Opcode: OpClosePositionsAsync, Name: "close positions async", Args: 2, MinFields: 1},
}

// Lookup returns the schema for op.
func Lookup(op Opcode) (Schema, bool) {
	s, ok := Catalogue[op]
	return s, ok
}
