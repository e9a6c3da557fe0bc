package cart

import "testing"

// TestUpsert_NewItem 加购新图书追加条目
func TestUpsert_NewItem(t *testing.T) {
	c := New(1)
	if err := c.Upsert(10, 2, 5900); err != nil {
		t.Fatalf("加购失败: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("期望1个条目, 实际%d", len(c.Items))
	}
	item := c.Items[0]
	if item.BookID != 10 || item.Quantity != 2 || item.UnitPrice != 5900 {
		t.Errorf("条目内容错误: %+v", item)
	}
}

// TestUpsert_MergeAndResnapshot 重复加购累加数量并重新快照价格
func TestUpsert_MergeAndResnapshot(t *testing.T) {
	c := New(1)
	_ = c.Upsert(10, 2, 5900)

	// 目录改价后再次加购同一本书
	if err := c.Upsert(10, 3, 4900); err != nil {
		t.Fatalf("二次加购失败: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("同一图书应合并为1个条目, 实际%d", len(c.Items))
	}
	item := c.Items[0]
	if item.Quantity != 5 {
		t.Errorf("数量期望5, 实际%d", item.Quantity)
	}
	if item.UnitPrice != 4900 {
		t.Errorf("快照价应更新为4900, 实际%d", item.UnitPrice)
	}
}

// TestUpsert_InvalidQuantity 数量非正拒绝
func TestUpsert_InvalidQuantity(t *testing.T) {
	c := New(1)
	if err := c.Upsert(10, 0, 5900); err != ErrInvalidQuantity {
		t.Errorf("期望ErrInvalidQuantity, 实际%v", err)
	}
	if err := c.Upsert(10, -1, 5900); err != ErrInvalidQuantity {
		t.Errorf("期望ErrInvalidQuantity, 实际%v", err)
	}
}

// TestUpsert_InsertionOrder 条目保持插入顺序
func TestUpsert_InsertionOrder(t *testing.T) {
	c := New(1)
	_ = c.Upsert(30, 1, 100)
	_ = c.Upsert(10, 1, 100)
	_ = c.Upsert(20, 1, 100)
	_ = c.Upsert(10, 1, 100) // 合并,不改变位置

	want := []uint{30, 10, 20}
	if len(c.Items) != len(want) {
		t.Fatalf("期望%d个条目, 实际%d", len(want), len(c.Items))
	}
	for i, id := range want {
		if c.Items[i].BookID != id {
			t.Errorf("位置%d期望book_id=%d, 实际%d", i, id, c.Items[i].BookID)
		}
	}
}

// TestRemove 移除条目
func TestRemove(t *testing.T) {
	c := New(1)
	_ = c.Upsert(10, 1, 100)
	_ = c.Upsert(20, 1, 100)

	if err := c.Remove(10); err != nil {
		t.Fatalf("移除失败: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].BookID != 20 {
		t.Errorf("移除后条目错误: %+v", c.Items)
	}

	if err := c.Remove(10); err != ErrItemNotFound {
		t.Errorf("重复移除期望ErrItemNotFound, 实际%v", err)
	}
}

// TestTotalAmount 总额按快照价计算
func TestTotalAmount(t *testing.T) {
	c := New(1)
	if c.TotalAmount() != 0 {
		t.Errorf("空购物车总额应为0, 实际%d", c.TotalAmount())
	}

	_ = c.Upsert(10, 2, 5900)
	_ = c.Upsert(20, 1, 12800)
	if got := c.TotalAmount(); got != 2*5900+12800 {
		t.Errorf("总额期望%d, 实际%d", 2*5900+12800, got)
	}
}

// TestDeactivate_Idempotent 灭活幂等
func TestDeactivate_Idempotent(t *testing.T) {
	c := New(1)
	if !c.IsActive {
		t.Fatal("新购物车应为激活状态")
	}

	c.Deactivate()
	if c.IsActive {
		t.Error("灭活后IsActive应为false")
	}

	first := c.UpdatedAt
	c.Deactivate() // 二次灭活无副作用
	if !c.UpdatedAt.Equal(first) {
		t.Error("重复灭活不应更新UpdatedAt")
	}
}

// TestIsEmpty 空判断
func TestIsEmpty(t *testing.T) {
	c := New(1)
	if !c.IsEmpty() {
		t.Error("新购物车应为空")
	}
	_ = c.Upsert(10, 1, 100)
	if c.IsEmpty() {
		t.Error("加购后不应为空")
	}
}
