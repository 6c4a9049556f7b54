package feast

import (
	"strconv"
	"strings"
)

// NewClient 根据端点创建客户端。
//
// 示例：
//
//	client, err := feast.NewClient("localhost:6565", "my_project")
//	client, err := feast.NewClient("grpc://feast.prod:6565", "my_project",
//		feast.WithAuth(&feast.AuthConfig{Type: "static", Token: token}))
func NewClient(endpoint, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(host, port, project, opts...)
}

// parseEndpoint 解析端点地址，返回 host 和 port（无端口时 port 为 0）。
func parseEndpoint(endpoint string) (string, int) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")

	if host, portStr, ok := strings.Cut(endpoint, ":"); ok {
		if port, err := strconv.Atoi(portStr); err == nil {
			return host, port
		}
	}
	return endpoint, 0
}
