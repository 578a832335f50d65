package main

import (
	"fmt"

	"github.com/remarkablejames/richtext"
)

// Run executes the article add command.
func (c *ArticleAddCmd) Run(deps *Dependencies) error {
	doc, err := deps.importDocument(c.Source, c.From, c.Extract)
	if err != nil {
		return deps.fail(err)
	}

	article := &richtext.Article{
		Title:   c.Title,
		Slug:    c.Slug,
		Content: doc,
	}
	if err := deps.Articles.CreateArticle(deps.Ctx, article); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Added article %q (%s)\n", article.Slug, article.ID)
	return nil
}

// Run executes the article list command.
func (c *ArticleListCmd) Run(deps *Dependencies) error {
	filter := richtext.ArticleFilter{Limit: c.Limit}
	if c.Paywalled {
		filter.HasPaywall = &c.Paywalled
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		return deps.fail(err)
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'richtext article add' to create one.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, richtext.FormatArticles(articles))
	return nil
}

// Run executes the article show command.
func (c *ArticleShowCmd) Run(deps *Dependencies) error {
	article, err := deps.findArticle(c.Ref)
	if err != nil {
		return deps.fail(err)
	}
	return deps.writeDocument("", article.Content, c.Format)
}

// Run executes the article preview command.
func (c *ArticlePreviewCmd) Run(deps *Dependencies) error {
	format, err := richtext.ParseFormat(c.Format)
	if err != nil {
		return deps.fail(err)
	}

	article, err := deps.findArticle(c.Ref)
	if err != nil {
		return deps.fail(err)
	}

	var out string
	if c.Full {
		out, err = deps.Previewer.Full(article.Content, format)
	} else {
		out, err = deps.Previewer.Preview(article.Content, format)
	}
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}

// Run executes the article delete command.
func (c *ArticleDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return richtext.Errorf(richtext.EINVALID, "use --force to confirm deletion")
	}

	article, err := deps.findArticle(c.Ref)
	if err != nil {
		return deps.fail(err)
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, article.ID); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %q\n", article.Slug)
	return nil
}

// findArticle looks ref up as an ID, then as a slug.
func (d *Dependencies) findArticle(ref string) (*richtext.Article, error) {
	article, err := d.Articles.FindArticleByID(d.Ctx, ref)
	if richtext.ErrorCode(err) != richtext.ENOTFOUND {
		return article, err
	}

	article, err = d.Articles.FindArticleBySlug(d.Ctx, ref)
	if richtext.ErrorCode(err) == richtext.ENOTFOUND {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "article %q not found. Use 'richtext article list' to see available articles.", ref)
	}
	return article, err
}
