package code

import "net/http"

var (
	Success       = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})

	Failed                    = NewError(400, http.StatusServiceUnavailable, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal       = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorInvalidParams        = NewError(501, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFoundAPI          = NewError(502, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorTooManyRequests      = NewError(503, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过于频繁"})
	ErrorNotUserAuthToken     = NewError(504, http.StatusUnauthorized, lang{en: "Missing auth token", zh_cn: "缺少认证令牌"})
	ErrorInvalidUserAuthToken = NewError(505, http.StatusUnauthorized, lang{en: "Invalid auth token", zh_cn: "认证令牌无效"})
	ErrorDBQuery              = NewError(506, http.StatusInternalServerError, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorReadOnlyAccess       = NewError(507, http.StatusForbidden, lang{en: "Session has read-only access", zh_cn: "当前会话只读"})
	ErrorRequestTimeout       = NewError(508, http.StatusGatewayTimeout, lang{en: "Request timed out", zh_cn: "请求超时"})

	ErrorInvalidSyncToken = NewError(520, http.StatusBadRequest, lang{en: "Invalid sync token", zh_cn: "同步令牌无效"})

	ErrorSharedVaultNotFound       = NewError(530, http.StatusNotFound, lang{en: "Shared vault not found", zh_cn: "共享库不存在"})
	ErrorSharedVaultNotMember      = NewError(531, http.StatusForbidden, lang{en: "Not a member of the shared vault", zh_cn: "不是共享库成员"})
	ErrorSharedVaultPermission     = NewError(532, http.StatusForbidden, lang{en: "Insufficient shared vault permissions", zh_cn: "共享库权限不足"})
	ErrorSharedVaultOwnerRemoval   = NewError(533, http.StatusBadRequest, lang{en: "The owner cannot be removed from the shared vault", zh_cn: "不能移除共享库所有者"})
	ErrorSharedVaultUserExists     = NewError(534, http.StatusConflict, lang{en: "User is already a member of the shared vault", zh_cn: "用户已是共享库成员"})
	ErrorSharedVaultUserNotFound   = NewError(535, http.StatusNotFound, lang{en: "Shared vault user not found", zh_cn: "共享库成员不存在"})
	ErrorSharedVaultInviteNotFound = NewError(536, http.StatusNotFound, lang{en: "Shared vault invite not found", zh_cn: "共享库邀请不存在"})
	ErrorSharedVaultInvalidInvite  = NewError(537, http.StatusBadRequest, lang{en: "Invalid shared vault invite", zh_cn: "共享库邀请无效"})
	ErrorSharedVaultExists         = NewError(538, http.StatusConflict, lang{en: "Shared vault already exists", zh_cn: "共享库已存在"})

	ErrorContactNotFound = NewError(540, http.StatusNotFound, lang{en: "Contact not found", zh_cn: "联系人不存在"})
)
