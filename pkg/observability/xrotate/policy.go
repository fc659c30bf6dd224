package xrotate

// ShouldRotate 判断下一次写入前是否需要轮转
//
// 当且仅当 currentSize > maxSize 时返回 true。
// maxSize 为 0 时任何非空文件都会触发：启用代际时每次写入前都轮转，
// 未启用代际时写入被丢弃。
func ShouldRotate(currentSize, maxSize uint64) bool {
	return currentSize > maxSize
}
