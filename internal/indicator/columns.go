package indicator

// Column names shared between the evaluation engine, the catalog and the
// persistence schema.
const (
	ColClose      = "close"
	ColVolume     = "volume"
	ColVolumeAvg  = "vol_avg_20"
	ColSMA20      = "sma_20"
	ColEMA5       = "ema_5"
	ColEMA12      = "ema_12"
	ColEMA26      = "ema_26"
	ColRSI14      = "rsi_14"
	ColMACD       = "macd"
	ColMACDSignal = "macd_signal"
	ColMACDHist   = "macd_hist"
	ColBBUpper    = "bb_upper"
	ColBBMiddle   = "bb_middle"
	ColBBLower    = "bb_lower"
	ColStochK     = "stoch_k"
	ColStochD     = "stoch_d"
)
