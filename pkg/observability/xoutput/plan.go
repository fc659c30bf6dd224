package xoutput

// Plan 决定选中某个通道时实际触发的传输列表（按顺序）
//
// 返回的切片只读，调用方不得修改。
type Plan func(selected Channel) []Channel

var (
	singleTargets = [...][]Channel{
		ChannelNone:       nil,
		ChannelDebugProbe: {ChannelDebugProbe},
		ChannelSerial:     {ChannelSerial},
		ChannelFile:       {ChannelFile},
	}

	cascadeTargets = [...][]Channel{
		ChannelNone:       nil,
		ChannelDebugProbe: {ChannelDebugProbe, ChannelSerial, ChannelFile},
		ChannelSerial:     {ChannelSerial, ChannelFile},
		ChannelFile:       {ChannelFile},
	}
)

// SinglePlan 只触发选中的通道
func SinglePlan(selected Channel) []Channel {
	if !selected.Valid() {
		return nil
	}
	return singleTargets[selected]
}

// CascadePlan 触发选中通道及其之下的所有通道
//
// 调试探针同时输出到串口和文件，串口同时输出到文件。
func CascadePlan(selected Channel) []Channel {
	if !selected.Valid() {
		return nil
	}
	return cascadeTargets[selected]
}

// ParsePlan 按名称返回 Plan：single（默认）或 cascade
func ParsePlan(name string) (Plan, bool) {
	switch name {
	case "", "single":
		return SinglePlan, true
	case "cascade":
		return CascadePlan, true
	default:
		return nil, false
	}
}
