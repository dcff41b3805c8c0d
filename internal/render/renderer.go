package render

import "context"

type Renderer interface {
	RenderRoot(ctx context.Context, page RootPage) ([]byte, error)
	RenderIndex(ctx context.Context, page IndexPage) ([]byte, error)
	RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
