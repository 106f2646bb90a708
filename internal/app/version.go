package app

// Name 服务名称
const Name = "Fast Vault Sync Service"

// 构建时通过 -ldflags "-X" 注入
var (
	Version   = "0.1.0"
	GitTag    = "2000.01.01.release"
	BuildTime = "2000-01-01T00:00:00+0800"
)

// SyncAPIVersions 同步接口接受的 api 参数取值
var SyncAPIVersions = []string{"20161215", "20200115"}

// VersionInfo is returned by GET /version.
// VersionInfo 版本接口的返回数据
type VersionInfo struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	GitTag          string   `json:"gitTag"`
	BuildTime       string   `json:"buildTime"`
	SyncAPIVersions []string `json:"syncApiVersions"`
}
